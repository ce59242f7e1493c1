package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fogleman/gg"

	"linemate/pkg/config"
	"linemate/pkg/page"
)

var errUsage = errors.New("missing input")

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run renders one page to a PNG. Flags given explicitly override the
// config file, which overrides the built-in defaults.
func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("linemate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	width := fs.Float64("w", 800, "viewport width in pixels")
	height := fs.Float64("h", 600, "viewport height in pixels")
	ratio := fs.Float64("ratio", 1, "device pixel ratio")
	configPath := fs.String("config", "", "YAML settings file")
	output := fs.String("o", "output.png", "output PNG file path")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: linemate [flags] <input.html|url>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errUsage
	}
	src := fs.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			cfg.Viewport.Width = *width
		case "h":
			cfg.Viewport.Height = *height
		case "ratio":
			cfg.PixelRatio = *ratio
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	p, err := page.Load(src, cfg)
	if err != nil {
		return fmt.Errorf("loading %s: %w", src, err)
	}

	fmt.Fprintf(stderr, "Rendering %gx%g at ratio %g...\n", cfg.Viewport.Width, cfg.Viewport.Height, cfg.PixelRatio)
	img := p.RunAndRender()
	if err := gg.SavePNG(*output, img); err != nil {
		return fmt.Errorf("saving PNG: %w", err)
	}

	fmt.Fprintf(stderr, "Saved %d connector surfaces to %s\n", len(p.Session.Surfaces()), *output)
	return nil
}
