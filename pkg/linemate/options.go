package linemate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"linemate/pkg/css"
	"linemate/pkg/geom"
	"linemate/pkg/route"
	"linemate/pkg/surface"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	custom := map[string]validator.Func{
		"csscolor": func(fl validator.FieldLevel) bool {
			_, ok := css.ParseColor(fl.Field().String())
			return ok
		},
		"anchor": func(fl validator.FieldLevel) bool {
			_, err := geom.ParseAnchor(fl.Field().String())
			return err == nil
		},
		"strategy": func(fl validator.FieldLevel) bool {
			_, err := route.ParseStrategy(fl.Field().String())
			return err == nil
		},
		"dashpattern": validDashPattern,
	}
	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// validDashPattern accepts non-negative finite lengths with a positive sum.
func validDashPattern(fl validator.FieldLevel) bool {
	pattern, ok := fl.Field().Interface().([]float64)
	if !ok {
		return false
	}
	total := 0.0
	for _, d := range pattern {
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return false
		}
		total += d
	}
	return total > 0
}

// Options style and route a connector. The zero value of a field means
// "not set"; Dashed, DashOffset and ZIndex are pointers so that false and
// 0 can be set explicitly.
type Options struct {
	StrokeColor string    `yaml:"strokeColor,omitempty" validate:"omitempty,csscolor"`
	StrokeWidth float64   `yaml:"strokeWidth,omitempty" validate:"gte=0"`
	LineCap     string    `yaml:"lineCap,omitempty" validate:"omitempty,oneof=butt round square"`
	LineJoin    string    `yaml:"lineJoin,omitempty" validate:"omitempty,oneof=round bevel miter"`
	// MiterLimit is carried to the backend's stroke style. The gg backend
	// has no mitered joins: miter strokes with bevel joins and ignores it.
	MiterLimit  float64   `yaml:"miterLimit,omitempty" validate:"gte=0"`
	Dashed      *bool     `yaml:"dashed,omitempty"`
	DashPattern []float64 `yaml:"dashPattern,omitempty" validate:"omitempty,dashpattern"`
	DashOffset  *float64  `yaml:"dashOffset,omitempty"`
	EntryAnchor string    `yaml:"entryAnchor,omitempty" validate:"omitempty,anchor"`
	ExitAnchor  string    `yaml:"exitAnchor,omitempty" validate:"omitempty,anchor"`
	Strategy    string    `yaml:"strategy,omitempty" validate:"omitempty,strategy"`
	ZIndex      *int      `yaml:"zIndex,omitempty"`
}

func Bool(v bool) *bool         { return &v }
func Int(v int) *int            { return &v }
func Float(v float64) *float64 { return &v }

// DefaultOptions returns the built-in defaults every session starts from.
func DefaultOptions() Options {
	return Options{
		StrokeColor: "#000",
		StrokeWidth: 1,
		LineCap:     string(surface.CapRound),
		LineJoin:    string(surface.JoinRound),
		MiterLimit:  10,
		Dashed:      Bool(false),
		DashPattern: []float64{5, 15},
		DashOffset:  Float(0),
		EntryAnchor: geom.Center.String(),
		ExitAnchor:  geom.Center.String(),
		Strategy:    route.Direct.String(),
		ZIndex:      Int(surface.DefaultZIndex),
	}
}

// Merge returns base with every set field of override copied over it.
func Merge(base, override Options) Options {
	out := base.clone()
	if override.StrokeColor != "" {
		out.StrokeColor = override.StrokeColor
	}
	if override.StrokeWidth != 0 {
		out.StrokeWidth = override.StrokeWidth
	}
	if override.LineCap != "" {
		out.LineCap = override.LineCap
	}
	if override.LineJoin != "" {
		out.LineJoin = override.LineJoin
	}
	if override.MiterLimit != 0 {
		out.MiterLimit = override.MiterLimit
	}
	if override.Dashed != nil {
		out.Dashed = Bool(*override.Dashed)
	}
	if override.DashPattern != nil {
		out.DashPattern = append([]float64(nil), override.DashPattern...)
	}
	if override.DashOffset != nil {
		out.DashOffset = Float(*override.DashOffset)
	}
	if override.EntryAnchor != "" {
		out.EntryAnchor = override.EntryAnchor
	}
	if override.ExitAnchor != "" {
		out.ExitAnchor = override.ExitAnchor
	}
	if override.Strategy != "" {
		out.Strategy = override.Strategy
	}
	if override.ZIndex != nil {
		out.ZIndex = Int(*override.ZIndex)
	}
	return out
}

func (o Options) clone() Options {
	out := o
	if o.Dashed != nil {
		out.Dashed = Bool(*o.Dashed)
	}
	if o.ZIndex != nil {
		out.ZIndex = Int(*o.ZIndex)
	}
	if o.DashOffset != nil {
		out.DashOffset = Float(*o.DashOffset)
	}
	if o.DashPattern != nil {
		out.DashPattern = append([]float64(nil), o.DashPattern...)
	}
	return out
}

// Validate checks every set field of o.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	e := verrs[0]
	value := fmt.Sprint(e.Value())
	switch e.Tag() {
	case "anchor":
		_, perr := geom.ParseAnchor(value)
		return fmt.Errorf("%s: %w", e.Field(), perr)
	case "strategy":
		_, perr := route.ParseStrategy(value)
		return fmt.Errorf("%s: %w", e.Field(), perr)
	case "gte":
		return fmt.Errorf("%w: %s must be at least %s, got %s", ErrInvalidOptions, e.Field(), e.Param(), value)
	case "oneof":
		return fmt.Errorf("%w: %s must be one of [%s], got %q", ErrInvalidOptions, e.Field(), e.Param(), value)
	default:
		return fmt.Errorf("%w: %s: invalid %s %v", ErrInvalidOptions, e.Field(), e.Tag(), value)
	}
}

// Stroke returns the stroke style o describes, in logical units.
func (o Options) Stroke() (surface.StrokeStyle, error) {
	st, err := o.settings()
	if err != nil {
		return surface.StrokeStyle{}, err
	}
	return st.stroke, nil
}

// settings is a fully merged and parsed Options record.
type settings struct {
	stroke   surface.StrokeStyle
	entry    geom.Anchor
	exit     geom.Anchor
	strategy route.Strategy
	zIndex   int
}

func (o Options) settings() (settings, error) {
	if err := o.Validate(); err != nil {
		return settings{}, err
	}

	var st settings
	var err error
	if st.entry, err = geom.ParseAnchor(o.EntryAnchor); err != nil {
		return settings{}, fmt.Errorf("entryAnchor: %w", err)
	}
	if st.exit, err = geom.ParseAnchor(o.ExitAnchor); err != nil {
		return settings{}, fmt.Errorf("exitAnchor: %w", err)
	}
	if st.strategy, err = route.ParseStrategy(o.Strategy); err != nil {
		return settings{}, fmt.Errorf("strategy: %w", err)
	}

	color, ok := css.ParseColor(o.StrokeColor)
	if !ok {
		return settings{}, fmt.Errorf("%w: strokeColor %q", ErrInvalidOptions, o.StrokeColor)
	}
	st.stroke = surface.StrokeStyle{
		Color:      color,
		Width:      o.StrokeWidth,
		Cap:        surface.LineCap(o.LineCap),
		Join:       surface.LineJoin(o.LineJoin),
		MiterLimit: o.MiterLimit,
	}
	if o.Dashed != nil && *o.Dashed {
		st.stroke.Dash = append([]float64(nil), o.DashPattern...)
		if o.DashOffset != nil {
			st.stroke.DashOffset = *o.DashOffset
		}
	}

	st.zIndex = surface.DefaultZIndex
	if o.ZIndex != nil {
		st.zIndex = *o.ZIndex
	}
	return st, nil
}
