package js

import (
	"errors"
	"fmt"

	"linemate/pkg/geom"
	"linemate/pkg/html"
	"linemate/pkg/linemate"
	"linemate/pkg/route"
	"linemate/pkg/surface"

	"github.com/dop251/goja"
)

// registerLinemate installs the `linemate` global. Failures throw; the
// thrown error's message carries the Go error text.
func registerLinemate(ctx *domContext, s *linemate.Session) {
	vm := ctx.vm
	obj := vm.NewObject()

	throw := func(err error) {
		var exc *goja.Exception
		if errors.As(err, &exc) {
			panic(exc.Value())
		}
		panic(vm.NewGoError(err))
	}

	obj.Set("defaults", func(call goja.FunctionCall) goja.Value {
		opts, err := ctx.options(call.Argument(0))
		if err != nil {
			throw(err)
		}
		merged, err := s.Configure(opts)
		if err != nil {
			throw(err)
		}
		return ctx.optionsValue(merged)
	})
	obj.Set("confine", func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		var target any
		if n := ctx.unwrapNode(arg); n != nil {
			target = n
		} else {
			target = arg.String()
		}
		if err := s.Confine(target); err != nil {
			throw(err)
		}
		return goja.Undefined()
	})
	obj.Set("clear", func(call goja.FunctionCall) goja.Value {
		s.Clear()
		return goja.Undefined()
	})

	connect := func(closed bool) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			elements, err := ctx.elements(call.Argument(0))
			if err != nil {
				throw(err)
			}
			opts, err := ctx.options(call.Argument(1))
			if err != nil {
				throw(err)
			}
			var surf *surface.Surface
			if closed {
				surf, err = s.ConnectClosed(elements, opts)
			} else {
				surf, err = s.Connect(elements, opts)
			}
			if err != nil {
				throw(err)
			}
			return ctx.elementProxy(surf.Node)
		}
	}
	obj.Set("connect", connect(false))
	obj.Set("complete", connect(true))

	obj.Set("custom", func(call goja.FunctionCall) goja.Value {
		elements, err := ctx.elements(call.Argument(0))
		if err != nil {
			throw(err)
		}
		opts, err := ctx.options(call.Argument(1))
		if err != nil {
			throw(err)
		}
		fn, ok := goja.AssertFunction(call.Argument(2))
		if !ok {
			panic(vm.NewTypeError("linemate.custom: stroke callback is not a function"))
		}
		effective := linemate.Merge(s.Defaults(), opts)
		optsValue := ctx.optionsValue(effective)

		surf, err := s.ConnectCustom(elements, opts, func(c surface.Canvas, nodes []route.Node) error {
			_, err := fn(goja.Undefined(), ctx.canvasObject(c, effective, throw), ctx.pathNodes(nodes), optsValue)
			return err
		})
		if err != nil {
			throw(err)
		}
		return ctx.elementProxy(surf.Node)
	})

	vm.Set("linemate", obj)
}

// elements converts the first argument of a draw call: a selector, an
// array of selectors, or an array of elements.
func (ctx *domContext) elements(v goja.Value) (any, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	if _, ok := v.Export().(string); ok {
		return v.String(), nil
	}
	if n := ctx.unwrapNode(v); n != nil {
		return []*html.Node{n}, nil
	}

	var items []goja.Value
	if err := ctx.vm.ExportTo(v, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", linemate.ErrInvalidElements, err)
	}
	if len(items) == 0 {
		return []*html.Node{}, nil
	}
	if _, ok := items[0].Export().(string); ok {
		selectors := make([]string, len(items))
		for i, item := range items {
			selectors[i] = item.String()
		}
		return selectors, nil
	}
	nodes := make([]*html.Node, len(items))
	for i, item := range items {
		n := ctx.unwrapNode(item)
		if n == nil {
			return nil, fmt.Errorf("%w: item %d is not an element", linemate.ErrInvalidElements, i)
		}
		nodes[i] = n
	}
	return nodes, nil
}

// options reads an options object. Both the short names (color, width,
// path, entryPoint...) and the long names (strokeColor, strokeWidth,
// routingStrategy, entryAnchor...) are accepted.
func (ctx *domContext) options(v goja.Value) (linemate.Options, error) {
	var o linemate.Options
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return o, nil
	}
	obj := v.ToObject(ctx.vm)
	for _, key := range obj.Keys() {
		val := obj.Get(key)
		switch key {
		case "color", "strokeColor":
			o.StrokeColor = val.String()
		case "width", "strokeWidth":
			o.StrokeWidth = val.ToFloat()
		case "cap", "lineCap":
			o.LineCap = val.String()
		case "join", "lineJoin":
			o.LineJoin = val.String()
		case "miterLimit":
			o.MiterLimit = val.ToFloat()
		case "dashed":
			o.Dashed = linemate.Bool(val.ToBoolean())
		case "dashSegments", "dashPattern":
			var pattern []float64
			if err := ctx.vm.ExportTo(val, &pattern); err != nil {
				return o, fmt.Errorf("%w: %s: %v", linemate.ErrInvalidOptions, key, err)
			}
			o.DashPattern = pattern
		case "dashOffset":
			o.DashOffset = linemate.Float(val.ToFloat())
		case "entryPoint", "entryAnchor":
			o.EntryAnchor = val.String()
		case "exitPoint", "exitAnchor":
			o.ExitAnchor = val.String()
		case "path", "routingStrategy", "strategy":
			o.Strategy = val.String()
		case "zIndex":
			o.ZIndex = linemate.Int(int(val.ToInteger()))
		}
	}
	return o, nil
}

func (ctx *domContext) optionsValue(o linemate.Options) goja.Value {
	obj := ctx.vm.NewObject()
	obj.Set("color", o.StrokeColor)
	obj.Set("width", o.StrokeWidth)
	obj.Set("cap", o.LineCap)
	obj.Set("join", o.LineJoin)
	obj.Set("miterLimit", o.MiterLimit)
	obj.Set("dashed", o.Dashed != nil && *o.Dashed)
	obj.Set("dashSegments", o.DashPattern)
	if o.DashOffset != nil {
		obj.Set("dashOffset", *o.DashOffset)
	}
	obj.Set("entryPoint", o.EntryAnchor)
	obj.Set("exitPoint", o.ExitAnchor)
	obj.Set("path", o.Strategy)
	if o.ZIndex != nil {
		obj.Set("zIndex", *o.ZIndex)
	}
	return obj
}

// canvasObject exposes the drawing calls a custom stroke callback may use.
// Coordinates and stroke lengths are surface pixels. setStroke takes the
// same option names as connect, merged over base; stroke commits the path
// drawn so far.
func (ctx *domContext) canvasObject(c surface.Canvas, base linemate.Options, throw func(error)) goja.Value {
	point := func(call goja.FunctionCall) geom.DevicePoint {
		return geom.DevicePoint{X: call.Argument(0).ToFloat(), Y: call.Argument(1).ToFloat()}
	}
	obj := ctx.vm.NewObject()
	obj.Set("moveTo", func(call goja.FunctionCall) goja.Value {
		c.MoveTo(point(call))
		return goja.Undefined()
	})
	obj.Set("lineTo", func(call goja.FunctionCall) goja.Value {
		c.LineTo(point(call))
		return goja.Undefined()
	})
	obj.Set("setStroke", func(call goja.FunctionCall) goja.Value {
		opts, err := ctx.options(call.Argument(0))
		if err != nil {
			throw(err)
		}
		if err := opts.Validate(); err != nil {
			throw(err)
		}
		style, err := linemate.Merge(base, opts).Stroke()
		if err != nil {
			throw(err)
		}
		c.SetStroke(style)
		return goja.Undefined()
	})
	obj.Set("stroke", func(call goja.FunctionCall) goja.Value {
		c.Stroke()
		return goja.Undefined()
	})
	return obj
}

func (ctx *domContext) pathNodes(nodes []route.Node) goja.Value {
	point := func(p geom.DevicePoint) goja.Value {
		obj := ctx.vm.NewObject()
		obj.Set("x", p.X)
		obj.Set("y", p.Y)
		return obj
	}
	values := make([]any, len(nodes))
	for i, n := range nodes {
		obj := ctx.vm.NewObject()
		obj.Set("entryPoint", point(n.Entry))
		obj.Set("exitPoint", point(n.Exit))
		values[i] = obj
	}
	return ctx.vm.NewArray(values...)
}
