// Map generator - writes a procedural island map and an optional PNG preview.
//
// Usage: go run ./cmd/mapgen -rows 12 -cols 20 -seed 7 -out island.txt -png island.png
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/danhje/population-dynamics-simulator/config"
	"github.com/danhje/population-dynamics-simulator/systems"
)

func main() {
	rows := flag.Int("rows", 12, "Map rows (including the ocean border)")
	cols := flag.Int("cols", 20, "Map columns (including the ocean border)")
	seed := flag.Int64("seed", 1, "Noise seed")
	out := flag.String("out", "", "Map text output file (empty = stdout)")
	pngPath := flag.String("png", "", "PNG preview output file (empty = none)")
	scale := flag.Int("scale", 16, "PNG pixels per cell")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	text, err := systems.GenerateMap(*rows, *cols, *seed)
	if err != nil {
		slog.Error("failed to generate map", "error", err)
		os.Exit(1)
	}

	// Parse it back so the output is known to be a valid island.
	terrain, err := systems.ParseMap(text, &config.Default().Params)
	if err != nil {
		slog.Error("generated map is invalid", "error", err)
		os.Exit(1)
	}

	if *out == "" {
		fmt.Println(text)
	} else if err := os.WriteFile(*out, []byte(text+"\n"), 0644); err != nil {
		slog.Error("failed to write map", "path", *out, "error", err)
		os.Exit(1)
	}

	if *pngPath != "" {
		if err := writePreview(*pngPath, terrain, max(*scale, 1)); err != nil {
			slog.Error("failed to write preview", "path", *pngPath, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("map generated", "rows", *rows, "cols", *cols, "seed", *seed)
}

// writePreview renders one scale×scale block per cell in its landscape color.
func writePreview(path string, t *systems.Terrain, scale int) error {
	img := renderPreview(t, scale)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderPreview(t *systems.Terrain, scale int) *image.RGBA {
	rows, cols := t.Dimensions()
	img := image.NewRGBA(image.Rect(0, 0, cols*scale, rows*scale))
	t.Each(func(row, col int, r *systems.Region) {
		c := r.Kind().Color()
		for y := row * scale; y < (row+1)*scale; y++ {
			for x := col * scale; x < (col+1)*scale; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	})
	return img
}
