package assets

import (
	"fmt"

	"github.com/zeusync/lowengine/internal/core/graphics"
)

// Clip is a contiguous run of frames inside a Sheet.
type Clip struct {
	Name          string
	StartFrame    uint32
	EndFrame      uint32
	FrameCount    uint32
	FrameDuration float64 // seconds per frame
}

// Duration is the time one pass over the clip takes.
func (c *Clip) Duration() float64 {
	return float64(c.FrameCount) * c.FrameDuration
}

// Sheet slices a texture into a grid of equally sized frames. Sheets are
// shared read-only by every component that plays them.
type Sheet struct {
	Texture     TextureID
	FrameWidth  uint32
	FrameHeight uint32
	FrameCountX uint32
	FrameCountY uint32

	clips map[string]*Clip
	order []string
}

func newSheet(texture TextureID, frameWidth, frameHeight, frameCountX, frameCountY uint32) (*Sheet, error) {
	if frameWidth == 0 || frameHeight == 0 || frameCountX == 0 || frameCountY == 0 {
		return nil, fmt.Errorf("%w: %dx%d frames of %dx%d", ErrInvalidSheet, frameCountX, frameCountY, frameWidth, frameHeight)
	}
	return &Sheet{
		Texture:     texture,
		FrameWidth:  frameWidth,
		FrameHeight: frameHeight,
		FrameCountX: frameCountX,
		FrameCountY: frameCountY,
		clips:       make(map[string]*Clip),
	}, nil
}

func (s *Sheet) FrameCount() uint32 {
	return s.FrameCountX * s.FrameCountY
}

// AddAnimationClip registers a clip. Re-adding a name replaces the clip but
// keeps its position in ClipNames.
func (s *Sheet) AddAnimationClip(name string, firstFrame, frameCount uint32, frameDuration float64) (*Clip, error) {
	if name == "" || frameCount == 0 || frameDuration <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidClip, name)
	}
	if firstFrame+frameCount > s.FrameCount() {
		return nil, fmt.Errorf("%w: %q spans frames %d..%d of %d", ErrInvalidClip, name, firstFrame, firstFrame+frameCount-1, s.FrameCount())
	}

	clip := &Clip{
		Name:          name,
		StartFrame:    firstFrame,
		EndFrame:      firstFrame + frameCount - 1,
		FrameCount:    frameCount,
		FrameDuration: frameDuration,
	}
	if _, exists := s.clips[name]; !exists {
		s.order = append(s.order, name)
	}
	s.clips[name] = clip
	return clip, nil
}

// Clip returns the named clip or nil.
func (s *Sheet) Clip(name string) *Clip {
	return s.clips[name]
}

// ClipNames lists clips in insertion order.
func (s *Sheet) ClipNames() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// FrameRect returns the source rectangle of a frame, counting row-major from
// the top-left cell.
func (s *Sheet) FrameRect(index uint32) graphics.Rect {
	index %= s.FrameCount()
	return graphics.Rect{
		X: int((index % s.FrameCountX) * s.FrameWidth),
		Y: int((index / s.FrameCountX) * s.FrameHeight),
		W: int(s.FrameWidth),
		H: int(s.FrameHeight),
	}
}
