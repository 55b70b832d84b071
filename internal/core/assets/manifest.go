package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest lists the textures, sheets and clips to register at startup.
type Manifest struct {
	Textures []ManifestTexture `yaml:"textures"`
}

type ManifestTexture struct {
	Path  string         `yaml:"path"`
	Alias string         `yaml:"alias,omitempty"`
	Sheet *ManifestSheet `yaml:"sheet,omitempty"`
	Clips []ManifestClip `yaml:"clips,omitempty"`
}

type ManifestSheet struct {
	FrameWidth  uint32 `yaml:"frame_width"`
	FrameHeight uint32 `yaml:"frame_height"`
	FramesX     uint32 `yaml:"frames_x"`
	FramesY     uint32 `yaml:"frames_y"`
}

type ManifestClip struct {
	Name     string  `yaml:"name"`
	First    uint32  `yaml:"first"`
	Count    uint32  `yaml:"count"`
	Duration float64 `yaml:"duration"`
}

// DecodeManifest parses a YAML manifest.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode asset manifest: %w", err)
	}
	return &m, nil
}

// LoadManifestFile registers the manifest at path. Relative texture paths are
// resolved against the manifest's directory.
func (r *Registry) LoadManifestFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := DecodeManifest(f)
	if err != nil {
		return err
	}
	base := filepath.Dir(path)
	for i := range m.Textures {
		if !filepath.IsAbs(m.Textures[i].Path) {
			m.Textures[i].Path = filepath.Join(base, m.Textures[i].Path)
		}
	}
	return r.Apply(m)
}

// LoadManifest decodes and applies a manifest with paths taken as-is.
func (r *Registry) LoadManifest(rd io.Reader) error {
	m, err := DecodeManifest(rd)
	if err != nil {
		return err
	}
	return r.Apply(m)
}

// Apply registers every manifest entry. It is all-or-nothing: on the first
// failure the registry is restored to what it held before the call.
func (r *Registry) Apply(m *Manifest) error {
	textures := len(r.textures)
	var (
		aliases []string
		sheets  []TextureID
	)
	rollback := func() {
		r.textures = r.textures[:textures]
		for _, a := range aliases {
			delete(r.aliases, a)
		}
		for _, id := range sheets {
			delete(r.sheets, id)
		}
	}

	for _, t := range m.Textures {
		var (
			id  TextureID
			err error
		)
		if t.Alias != "" {
			id, err = r.LoadTextureAs(t.Path, t.Alias)
		} else {
			id, err = r.LoadTexture(t.Path)
		}
		if err != nil {
			rollback()
			return err
		}
		if t.Alias != "" {
			aliases = append(aliases, t.Alias)
		}

		if t.Sheet == nil {
			if len(t.Clips) > 0 {
				rollback()
				return fmt.Errorf("%w: %s declares clips without a sheet", ErrNoAnimationSheet, t.Path)
			}
			continue
		}
		if _, err = r.AddAnimationSheet(id, t.Sheet.FrameWidth, t.Sheet.FrameHeight, t.Sheet.FramesX, t.Sheet.FramesY); err != nil {
			rollback()
			return err
		}
		sheets = append(sheets, id)
		for _, c := range t.Clips {
			if err = r.AddAnimationClip(id, c.Name, c.First, c.Count, c.Duration); err != nil {
				rollback()
				return err
			}
		}
	}
	return nil
}
