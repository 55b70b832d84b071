package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Loader probes a texture source for its pixel dimensions. The registry never
// keeps the pixels; rendering backends decode them on their own.
type Loader interface {
	Probe(path string) (width, height int, err error)
}

type LoaderFunc func(path string) (int, int, error)

func (fn LoaderFunc) Probe(path string) (int, int, error) { return fn(path) }

// FileLoader reads only the image header from disk.
type FileLoader struct{}

func (FileLoader) Probe(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
