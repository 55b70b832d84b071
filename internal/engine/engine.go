// Package engine drives the scene manager one frame at a time and exposes
// the play, pause, and stop controls over a temporary scene copy.
package engine

import (
	"context"

	"github.com/zeusync/lowengine/internal/core/graphics"
	"github.com/zeusync/lowengine/internal/core/observability/log"
	"github.com/zeusync/lowengine/internal/core/scene"
)

// PlaySuffix is appended to the name of a play copy.
const PlaySuffix = " (TEMPORARY)"

const defaultQueueSize = 64

// Command runs on the game-loop goroutine between frames.
type Command func(e *Engine)

// Engine owns the frame loop. Everything but Post, Do, and Close must be
// called from the loop goroutine; other goroutines hand work over through the
// command queue.
type Engine struct {
	scenes *scene.Manager
	logger log.Log

	commands chan Command
	done     chan struct{}

	frames uint64
}

func New(scenes *scene.Manager, logger log.Log, queueSize int) *Engine {
	if logger == nil {
		logger = log.Nop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Engine{
		scenes:   scenes,
		logger:   logger.With(log.String("component", "engine")),
		commands: make(chan Command, queueSize),
		done:     make(chan struct{}),
	}
}

func (e *Engine) Scenes() *scene.Manager { return e.scenes }

// Frames counts completed ticks.
func (e *Engine) Frames() uint64 { return e.frames }

// Post queues cmd for the next tick. It blocks while the queue is full.
func (e *Engine) Post(ctx context.Context, cmd Command) error {
	select {
	case <-e.done:
		return ErrClosed
	default:
	}
	select {
	case e.commands <- cmd:
		return nil
	case <-e.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (e *Engine) Do(ctx context.Context, fn func(e *Engine) error) error {
	result := make(chan error, 1)
	if err := e.Post(ctx, func(e *Engine) { result <- fn(e) }); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-e.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close rejects further commands. Pending ones are dropped.
func (e *Engine) Close() {
	select {
	case <-e.done:
	default:
		close(e.done)
	}
}

// Tick drains queued commands and then advances the current scene unless it
// is paused.
func (e *Engine) Tick(deltaTime float64) {
	e.drain()
	if cur := e.scenes.GetCurrentScene(); cur != nil && !cur.IsPaused {
		cur.Update(deltaTime)
	}
	e.frames++
}

func (e *Engine) drain() {
	for {
		select {
		case cmd := <-e.commands:
			cmd(e)
		default:
			return
		}
	}
}

// Play copies the current scene, selects the copy, and unpauses it.
func (e *Engine) Play() error {
	cur := e.scenes.GetCurrentScene()
	if cur == nil {
		return ErrNoScene
	}
	if cur.IsTemporary {
		return ErrAlreadyPlaying
	}
	index := e.scenes.CreateCopySceneFromCurrent(PlaySuffix)
	if index == scene.NotFound {
		e.logger.Error("Failed to create temporary scene", log.String("scene", cur.Name))
		return ErrCopyFailed
	}
	e.scenes.SelectScene(index)
	e.scenes.GetCurrentScene().IsPaused = false
	e.logger.Info("Play started", log.String("scene", cur.Name))
	return nil
}

// TogglePause flips the pause flag of the running play copy.
func (e *Engine) TogglePause() error {
	cur, err := e.playing()
	if err != nil {
		return err
	}
	cur.IsPaused = !cur.IsPaused
	e.logger.Info("Play paused", log.Bool("paused", cur.IsPaused))
	return nil
}

// Stop destroys the running play copy, which returns selection to the scene
// below it.
func (e *Engine) Stop() error {
	if _, err := e.playing(); err != nil {
		return err
	}
	e.scenes.DestroyCurrentScene()
	e.logger.Info("Play stopped")
	return nil
}

// Playing reports whether the current scene is a play copy.
func (e *Engine) Playing() bool {
	_, err := e.playing()
	return err == nil
}

func (e *Engine) playing() (*scene.Scene, error) {
	cur := e.scenes.GetCurrentScene()
	if cur == nil {
		return nil, ErrNoScene
	}
	if !cur.IsTemporary {
		return nil, ErrNotPlaying
	}
	return cur, nil
}

// Frame is the current scene's frame, or an empty one.
func (e *Engine) Frame() graphics.Frame {
	if cur := e.scenes.GetCurrentScene(); cur != nil {
		return cur.Frame()
	}
	return graphics.Frame{}
}

func (e *Engine) Draw(target graphics.Target) {
	target.Render(e.Frame())
}
