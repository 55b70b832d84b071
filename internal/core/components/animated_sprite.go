package components

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/ecs"
)

// QueuedClip is a clip waiting to start once the current one ends.
type QueuedClip struct {
	Name string
	Loop bool
}

// AnimatedSprite steps its owner's Sprite through the frames of a clip. Sheet
// and Clip point into the asset registry and are shared, never copied.
type AnimatedSprite struct {
	ecs.Base
	Sheet   *assets.Sheet
	Clip    *assets.Clip
	Loop    bool
	Playing bool
	Frame   uint32  // index within Clip
	Elapsed float64 // seconds into the current frame

	queue []QueuedClip
}

func (*AnimatedSprite) TypeName() string       { return AnimatedSpriteType }
func (*AnimatedSprite) Dependencies() []string { return []string{SpriteType} }

// Initialize picks up the sheet of the sprite's texture when none was
// configured.
func (a *AnimatedSprite) Initialize() {
	if a.Sheet != nil {
		a.apply()
		return
	}
	reg := a.Arena().Assets()
	sprite := ecs.GetComponent[Sprite](a.Arena(), a.Owner())
	if reg == nil || sprite == nil {
		return
	}
	a.Sheet = reg.AnimationSheet(sprite.TextureID)
	a.apply()
}

// SetSheet binds the sheet of the texture named by alias and points the
// sprite at that texture. Playback stops.
func (a *AnimatedSprite) SetSheet(alias string) error {
	reg := a.Arena().Assets()
	if reg == nil {
		return fmt.Errorf("%w: %s", assets.ErrUnknownAlias, alias)
	}
	sheet, err := reg.AnimationSheetAlias(alias)
	if err != nil {
		return err
	}
	if sheet == nil {
		return fmt.Errorf("%w: %s", assets.ErrNoAnimationSheet, alias)
	}
	if sprite := ecs.GetComponent[Sprite](a.Arena(), a.Owner()); sprite != nil {
		sprite.SetSpriteID(sheet.Texture)
	}
	a.Sheet = sheet
	a.Clip = nil
	a.Playing = false
	a.Frame, a.Elapsed = 0, 0
	a.queue = nil
	return nil
}

// Play restarts playback with the named clip. Pending queued clips are
// dropped.
func (a *AnimatedSprite) Play(name string, loop bool) error {
	clip, err := a.lookup(name)
	if err != nil {
		return err
	}
	a.queue = nil
	a.start(clip, loop)
	return nil
}

// PlayNext queues a clip to start when the current non-looping clip ends.
// With nothing playing it starts immediately.
func (a *AnimatedSprite) PlayNext(name string, loop bool) error {
	clip, err := a.lookup(name)
	if err != nil {
		return err
	}
	if !a.Playing {
		a.start(clip, loop)
		return nil
	}
	a.queue = append(a.queue, QueuedClip{Name: name, Loop: loop})
	return nil
}

// Queue returns a copy of the pending clips.
func (a *AnimatedSprite) Queue() []QueuedClip {
	return slices.Clone(a.queue)
}

// Stop freezes playback on the current frame.
func (a *AnimatedSprite) Stop() {
	a.Playing = false
	a.Elapsed = 0
	a.queue = nil
}

func (a *AnimatedSprite) lookup(name string) (*assets.Clip, error) {
	if a.Sheet == nil {
		return nil, fmt.Errorf("%w: entity %d", assets.ErrNoAnimationSheet, a.Owner())
	}
	clip := a.Sheet.Clip(name)
	if clip == nil {
		return nil, fmt.Errorf("%w: %s", assets.ErrUnknownClip, name)
	}
	return clip, nil
}

func (a *AnimatedSprite) start(clip *assets.Clip, loop bool) {
	a.Clip = clip
	a.Loop = loop
	a.Playing = true
	a.Frame, a.Elapsed = 0, 0
	a.apply()
}

// Update advances playback by deltaTime and writes the current frame into the
// sprite's source rectangle. Update(0) only re-applies the current frame.
func (a *AnimatedSprite) Update(deltaTime float64) {
	if a.Clip == nil {
		return
	}
	if a.Playing && deltaTime > 0 {
		a.Elapsed += deltaTime
		for a.Playing && a.Elapsed >= a.Clip.FrameDuration {
			// Whole cycles of a looping clip land on the same frame.
			if cycle := a.Clip.Duration(); a.Loop && a.Elapsed >= cycle {
				a.Elapsed = math.Mod(a.Elapsed, cycle)
				continue
			}
			a.Elapsed -= a.Clip.FrameDuration
			a.advance()
		}
	}
	a.apply()
}

func (a *AnimatedSprite) advance() {
	if a.Frame+1 < a.Clip.FrameCount {
		a.Frame++
		return
	}
	switch {
	case a.Loop:
		a.Frame = 0
	case len(a.queue) > 0:
		next := a.queue[0]
		a.queue = a.queue[1:]
		clip := a.Sheet.Clip(next.Name)
		if clip == nil {
			a.Playing = false
			return
		}
		a.Clip = clip
		a.Loop = next.Loop
		a.Frame = 0
	default:
		a.Playing = false
		a.Elapsed = 0
	}
}

func (a *AnimatedSprite) apply() {
	if a.Sheet == nil {
		return
	}
	sprite := ecs.GetComponent[Sprite](a.Arena(), a.Owner())
	if sprite == nil {
		return
	}
	index := a.Frame
	if a.Clip != nil {
		index += a.Clip.StartFrame
	}
	sprite.Sprite.Source = a.Sheet.FrameRect(index)
}

func (a *AnimatedSprite) CloneInto(target *ecs.Arena, dst ecs.Component) {
	d := dst.(*AnimatedSprite)
	*d = *a
	d.queue = slices.Clone(a.queue)
	d.Rebind(target)
}

func (a *AnimatedSprite) WriteState(w io.Writer) {
	sheet, clip := assets.InvalidTextureID, ""
	if a.Sheet != nil {
		sheet = a.Sheet.Texture
	}
	if a.Clip != nil {
		clip = a.Clip.Name
	}
	_, _ = fmt.Fprintf(w, "%d|%s|%t|%t|%d|%g|%v", sheet, clip, a.Loop, a.Playing, a.Frame, a.Elapsed, a.queue)
}
