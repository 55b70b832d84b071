// Package editor is the headless model behind the editor overlay: the world
// outliner, the properties panel, and the play toolbar. It holds no widgets;
// a front end renders what it returns and calls its edit methods.
package editor

import (
	"errors"
	"fmt"

	"github.com/zeusync/lowengine/internal/core/components"
	"github.com/zeusync/lowengine/internal/core/ecs"
	"github.com/zeusync/lowengine/internal/core/graphics"
	"github.com/zeusync/lowengine/internal/core/observability/log"
	"github.com/zeusync/lowengine/internal/core/scene"
	"github.com/zeusync/lowengine/internal/engine"
)

var (
	ErrNoSelection = errors.New("editor: no entity selected")
	ErrNoComponent = errors.New("editor: selected entity lacks component")
	ErrEmptyName   = errors.New("editor: entity name is empty")
)

// Editor must be driven from the game-loop goroutine, like the engine.
type Editor struct {
	engine *engine.Engine
	logger log.Log

	selected    ecs.EntityID
	hasSelected bool
}

func New(e *engine.Engine, logger log.Log) *Editor {
	if logger == nil {
		logger = log.Nop()
	}
	return &Editor{engine: e, logger: logger.With(log.String("component", "editor"))}
}

type Row struct {
	ID       ecs.EntityID `json:"id"`
	Name     string       `json:"name"`
	Label    string       `json:"label"`
	Active   bool         `json:"active"`
	Selected bool         `json:"selected"`
}

type Outline struct {
	Scene     string `json:"scene"`
	Temporary bool   `json:"temporary"`
	Paused    bool   `json:"paused"`
	Rows      []Row  `json:"rows"`
}

// Outline lists the current scene's entities as "[id] name" rows.
func (ed *Editor) Outline() Outline {
	s := ed.current()
	if s == nil {
		return Outline{}
	}
	out := Outline{Scene: s.Name, Temporary: s.IsTemporary, Paused: s.IsPaused}
	for _, e := range s.GetEntities() {
		out.Rows = append(out.Rows, Row{
			ID:       e.ID,
			Name:     e.Name,
			Label:    fmt.Sprintf("[%d] %s", e.ID, e.Name),
			Active:   e.Active,
			Selected: ed.hasSelected && e.ID == ed.selected,
		})
	}
	return out
}

// Select picks an entity of the current scene. Unknown ids are rejected.
func (ed *Editor) Select(id ecs.EntityID) bool {
	s := ed.current()
	if s == nil || s.GetEntity(id) == nil {
		return false
	}
	ed.selected, ed.hasSelected = id, true
	return true
}

func (ed *Editor) ClearSelection() {
	ed.selected, ed.hasSelected = 0, false
}

func (ed *Editor) Selected() (ecs.EntityID, bool) {
	return ed.selected, ed.hasSelected
}

type TransformProps struct {
	Position graphics.Vec2 `json:"position"`
	Rotation float64       `json:"rotation"`
	Scale    graphics.Vec2 `json:"scale"`
}

type AnimationProps struct {
	Clip          string   `json:"clip"`
	Clips         []string `json:"clips"`
	Loop          bool     `json:"loop"`
	StartFrame    uint32   `json:"start_frame"`
	EndFrame      uint32   `json:"end_frame"`
	FrameCount    uint32   `json:"frame_count"`
	FrameDuration float64  `json:"frame_duration"`
}

type CameraProps struct {
	ZoomFactor float64 `json:"zoom_factor"`
}

type Properties struct {
	ID             ecs.EntityID    `json:"id"`
	Name           string          `json:"name"`
	Components     []string        `json:"components"`
	Transform      *TransformProps `json:"transform,omitempty"`
	AnimatedSprite *AnimationProps `json:"animated_sprite,omitempty"`
	Camera         *CameraProps    `json:"camera,omitempty"`
}

// Properties describes the selected entity.
func (ed *Editor) Properties() (Properties, error) {
	s, e, err := ed.selection()
	if err != nil {
		return Properties{}, err
	}
	p := Properties{ID: e.ID, Name: e.Name, Components: e.ComponentTypes()}
	if t := scene.GetComponent[components.Transform](s, e.ID); t != nil {
		p.Transform = &TransformProps{Position: t.Position, Rotation: t.Rotation, Scale: t.Scale}
	}
	if a := scene.GetComponent[components.AnimatedSprite](s, e.ID); a != nil {
		props := &AnimationProps{Loop: a.Loop}
		if a.Sheet != nil {
			props.Clips = a.Sheet.ClipNames()
		}
		if a.Clip != nil {
			props.Clip = a.Clip.Name
			props.StartFrame = a.Clip.StartFrame
			props.EndFrame = a.Clip.EndFrame
			props.FrameCount = a.Clip.FrameCount
			props.FrameDuration = a.Clip.FrameDuration
		}
		p.AnimatedSprite = props
	}
	if c := scene.GetComponent[components.Camera](s, e.ID); c != nil {
		p.Camera = &CameraProps{ZoomFactor: c.ZoomFactor}
	}
	return p, nil
}

// Rename sets the selected entity's display name as typed, without the id
// suffix activation adds.
func (ed *Editor) Rename(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	s, e, err := ed.selection()
	if err != nil {
		return err
	}
	e.Name = name
	s.Update(0)
	return nil
}

func (ed *Editor) SetPosition(x, y float64) error {
	return ed.editTransform(func(t *components.Transform) { t.Position = graphics.Vec2{X: x, Y: y} })
}

func (ed *Editor) SetRotation(degrees float64) error {
	return ed.editTransform(func(t *components.Transform) { t.Rotation = degrees })
}

func (ed *Editor) SetScale(x, y float64) error {
	return ed.editTransform(func(t *components.Transform) { t.Scale = graphics.Vec2{X: x, Y: y} })
}

func (ed *Editor) editTransform(edit func(*components.Transform)) error {
	s, e, err := ed.selection()
	if err != nil {
		return err
	}
	t := scene.GetComponent[components.Transform](s, e.ID)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrNoComponent, components.TransformType)
	}
	edit(t)
	s.Update(0)
	return nil
}

// SetClip restarts the selected animation with the named clip, keeping its
// loop flag.
func (ed *Editor) SetClip(name string) error {
	s, e, err := ed.selection()
	if err != nil {
		return err
	}
	a := scene.GetComponent[components.AnimatedSprite](s, e.ID)
	if a == nil {
		return fmt.Errorf("%w: %s", ErrNoComponent, components.AnimatedSpriteType)
	}
	if err = a.Play(name, a.Loop); err != nil {
		return err
	}
	s.Update(0)
	return nil
}

// SetZoom changes the selected camera's zoom and refreshes only that camera.
func (ed *Editor) SetZoom(factor float64) error {
	s, e, err := ed.selection()
	if err != nil {
		return err
	}
	c := scene.GetComponent[components.Camera](s, e.ID)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrNoComponent, components.CameraType)
	}
	c.ZoomFactor = factor
	c.Update(0)
	return nil
}

// Play starts a play copy. The selection is cleared because its id belongs
// to the edited scene.
func (ed *Editor) Play() error {
	if err := ed.engine.Play(); err != nil {
		return err
	}
	ed.ClearSelection()
	return nil
}

func (ed *Editor) TogglePause() error { return ed.engine.TogglePause() }

// Stop ends the play copy and drops a selection made inside it.
func (ed *Editor) Stop() error {
	if err := ed.engine.Stop(); err != nil {
		return err
	}
	ed.ClearSelection()
	return nil
}

func (ed *Editor) current() *scene.Scene {
	return ed.engine.Scenes().GetCurrentScene()
}

func (ed *Editor) selection() (*scene.Scene, *ecs.Entity, error) {
	s := ed.current()
	if s == nil || !ed.hasSelected {
		return nil, nil, ErrNoSelection
	}
	e := s.GetEntity(ed.selected)
	if e == nil {
		ed.ClearSelection()
		return nil, nil, ErrNoSelection
	}
	return s, e, nil
}
