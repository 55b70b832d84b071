package assets

import (
	"fmt"
	"sort"

	"github.com/zeusync/lowengine/internal/core/observability/log"
)

// TextureID is an opaque handle into a Registry.
type TextureID int32

const (
	// DefaultTextureID always resolves; components fall back to it when no
	// texture has been chosen yet.
	DefaultTextureID TextureID = 0
	InvalidTextureID TextureID = -1

	defaultTextureSize = 32
)

// Texture is registry metadata about an image. Path is empty for the built-in
// default texture.
type Texture struct {
	ID     TextureID
	Path   string
	Width  int
	Height int
}

func (t Texture) IsDefault() bool { return t.ID == DefaultTextureID }

// Registry maps texture handles and aliases to metadata and animation sheets.
// One Registry is built at startup and passed to whoever needs it; it is not
// safe for concurrent use, same as the rest of the engine core.
type Registry struct {
	loader   Loader
	logger   log.Log
	textures []Texture
	aliases  map[string]TextureID
	sheets   map[TextureID]*Sheet

	generation uint64
}

func NewRegistry(loader Loader, logger log.Log) *Registry {
	if loader == nil {
		loader = FileLoader{}
	}
	if logger == nil {
		logger = log.Nop()
	}
	r := &Registry{
		loader: loader,
		logger: logger.With(log.String("component", "assets")),
	}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.textures = []Texture{{ID: DefaultTextureID, Width: defaultTextureSize, Height: defaultTextureSize}}
	r.aliases = make(map[string]TextureID)
	r.sheets = make(map[TextureID]*Sheet)
}

// LoadTexture registers the image at path and returns its handle.
func (r *Registry) LoadTexture(path string) (TextureID, error) {
	w, h, err := r.loader.Probe(path)
	if err != nil {
		r.logger.Error("Failed to load texture", log.String("path", path), log.Error(err))
		return InvalidTextureID, fmt.Errorf("load texture %q: %w", path, err)
	}
	id := TextureID(len(r.textures))
	r.textures = append(r.textures, Texture{ID: id, Path: path, Width: w, Height: h})
	r.logger.Debug("Texture loaded", log.String("path", path), log.Int("id", int(id)))
	return id, nil
}

// LoadTextureAs loads a texture and binds alias to it. An alias that is
// already bound is rejected before anything is loaded.
func (r *Registry) LoadTextureAs(path, alias string) (TextureID, error) {
	if _, taken := r.aliases[alias]; taken {
		return InvalidTextureID, fmt.Errorf("%w: %s", ErrAliasTaken, alias)
	}
	id, err := r.LoadTexture(path)
	if err != nil {
		return id, err
	}
	r.aliases[alias] = id
	return id, nil
}

// LoadTextureWithAnimationSheet loads a texture, optionally aliases it, and
// slices it into a sheet. On a sheet error the texture stays loaded.
func (r *Registry) LoadTextureWithAnimationSheet(path, alias string, frameWidth, frameHeight, frameCountX, frameCountY uint32) (TextureID, error) {
	var (
		id  TextureID
		err error
	)
	if alias == "" {
		id, err = r.LoadTexture(path)
	} else {
		id, err = r.LoadTextureAs(path, alias)
	}
	if err != nil {
		return id, err
	}
	if _, err = r.AddAnimationSheet(id, frameWidth, frameHeight, frameCountX, frameCountY); err != nil {
		return id, err
	}
	return id, nil
}

func (r *Registry) AddAnimationSheet(id TextureID, frameWidth, frameHeight, frameCountX, frameCountY uint32) (*Sheet, error) {
	if !r.has(id) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	if _, exists := r.sheets[id]; exists {
		r.logger.Error("Texture already has an animation sheet", log.Int("id", int(id)))
		return nil, fmt.Errorf("%w: %d", ErrSheetExists, id)
	}
	sheet, err := newSheet(id, frameWidth, frameHeight, frameCountX, frameCountY)
	if err != nil {
		return nil, err
	}
	r.sheets[id] = sheet
	return sheet, nil
}

func (r *Registry) AddAnimationSheetAlias(alias string, frameWidth, frameHeight, frameCountX, frameCountY uint32) (*Sheet, error) {
	id, err := r.Resolve(alias)
	if err != nil {
		return nil, err
	}
	return r.AddAnimationSheet(id, frameWidth, frameHeight, frameCountX, frameCountY)
}

func (r *Registry) AddAnimationClip(id TextureID, name string, firstFrame, frameCount uint32, frameDuration float64) error {
	sheet, ok := r.sheets[id]
	if !ok {
		r.logger.Error("Texture does not have an animation sheet", log.Int("id", int(id)))
		return fmt.Errorf("%w: %d", ErrNoAnimationSheet, id)
	}
	_, err := sheet.AddAnimationClip(name, firstFrame, frameCount, frameDuration)
	return err
}

func (r *Registry) AddAnimationClipAlias(alias, name string, firstFrame, frameCount uint32, frameDuration float64) error {
	id, err := r.Resolve(alias)
	if err != nil {
		return err
	}
	return r.AddAnimationClip(id, name, firstFrame, frameCount, frameDuration)
}

// AnimationSheet returns nil when the texture has no sheet; that is an
// ordinary state for still images.
func (r *Registry) AnimationSheet(id TextureID) *Sheet {
	return r.sheets[id]
}

// AnimationSheetAlias fails when the alias is unknown. A known alias without
// a sheet yields (nil, nil).
func (r *Registry) AnimationSheetAlias(alias string) (*Sheet, error) {
	id, err := r.Resolve(alias)
	if err != nil {
		return nil, err
	}
	return r.AnimationSheet(id), nil
}

func (r *Registry) DefaultTexture() Texture {
	return r.textures[DefaultTextureID]
}

func (r *Registry) Texture(id TextureID) (Texture, error) {
	if !r.has(id) {
		r.logger.Error("Texture does not exist", log.Int("id", int(id)))
		return Texture{}, fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	return r.textures[id], nil
}

func (r *Registry) TextureAlias(alias string) (Texture, error) {
	id, err := r.Resolve(alias)
	if err != nil {
		return Texture{}, err
	}
	return r.Texture(id)
}

// Resolve maps an alias to its handle. Unknown aliases are content errors and
// are reported, not defaulted.
func (r *Registry) Resolve(alias string) (TextureID, error) {
	id, ok := r.aliases[alias]
	if !ok {
		r.logger.Error("Texture alias does not exist", log.String("alias", alias))
		return InvalidTextureID, fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
	}
	return id, nil
}

// Aliases returns bound aliases sorted by name.
func (r *Registry) Aliases() []string {
	out := make([]string, 0, len(r.aliases))
	for alias := range r.aliases {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Textures returns a copy of the texture table, default first.
func (r *Registry) Textures() []Texture {
	out := make([]Texture, len(r.textures))
	copy(out, r.textures)
	return out
}

func (r *Registry) Len() int {
	return len(r.textures)
}

// UnloadAll drops every loaded texture, alias, and sheet. The default
// texture survives so handle 0 keeps resolving.
func (r *Registry) UnloadAll() {
	r.reset()
	r.generation++
	r.logger.Info("All textures unloaded")
}

// Generation changes every time UnloadAll runs. Caches keyed by TextureID
// compare it to know when their handles went stale.
func (r *Registry) Generation() uint64 {
	return r.generation
}

func (r *Registry) has(id TextureID) bool {
	return id >= 0 && int(id) < len(r.textures)
}
