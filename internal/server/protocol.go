package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zeusync/lowengine/internal/core/ecs"
	"github.com/zeusync/lowengine/internal/editor"
	"github.com/zeusync/lowengine/internal/engine"
)

// Request is one command from an inspector client.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response answers the Request with the same ID.
type Response struct {
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Push carries a bus event to every connected client.
type Push struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Hello is the first message a session receives.
type Hello struct {
	Session string `json:"session"`
}

type selectArgs struct {
	ID ecs.EntityID `json:"id"`
}

type renameArgs struct {
	Name string `json:"name"`
}

// editArgs addresses one property of the selected entity. X and Y carry
// vectors, Value scalars, Clip the clip name.
type editArgs struct {
	Field string  `json:"field"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Clip  string  `json:"clip"`
}

type handler func(ed *editor.Editor, args json.RawMessage) (any, error)

var handlers = map[string]handler{
	"outline": func(ed *editor.Editor, _ json.RawMessage) (any, error) {
		return ed.Outline(), nil
	},
	"properties": func(ed *editor.Editor, _ json.RawMessage) (any, error) {
		return ed.Properties()
	},
	"select": func(ed *editor.Editor, raw json.RawMessage) (any, error) {
		var args selectArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if !ed.Select(args.ID) {
			return nil, fmt.Errorf("%w: %d", ecs.ErrEntityNotFound, args.ID)
		}
		return ed.Properties()
	},
	"rename": func(ed *editor.Editor, raw json.RawMessage) (any, error) {
		var args renameArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if err := ed.Rename(args.Name); err != nil {
			return nil, err
		}
		return ed.Properties()
	},
	"edit": func(ed *editor.Editor, raw json.RawMessage) (any, error) {
		var args editArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		var err error
		switch args.Field {
		case "position":
			err = ed.SetPosition(args.X, args.Y)
		case "rotation":
			err = ed.SetRotation(args.Value)
		case "scale":
			err = ed.SetScale(args.X, args.Y)
		case "clip":
			err = ed.SetClip(args.Clip)
		case "zoom":
			err = ed.SetZoom(args.Value)
		default:
			err = fmt.Errorf("%w: unknown field %q", ErrInvalidMessage, args.Field)
		}
		if err != nil {
			return nil, err
		}
		return ed.Properties()
	},
	"play": func(ed *editor.Editor, _ json.RawMessage) (any, error) {
		return nil, ed.Play()
	},
	"pause": func(ed *editor.Editor, _ json.RawMessage) (any, error) {
		return nil, ed.TogglePause()
	},
	"stop": func(ed *editor.Editor, _ json.RawMessage) (any, error) {
		return nil, ed.Stop()
	},
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing args", ErrInvalidMessage)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return nil
}

// execute runs req on the game loop and builds the reply.
func (s *Inspector) execute(ctx context.Context, req Request) Response {
	h, ok := handlers[req.Command]
	if !ok {
		return Response{ID: req.ID, Error: fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command).Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.CommandTimeout)
	defer cancel()

	var data any
	err := s.engine.Do(ctx, func(*engine.Engine) error {
		var err error
		data, err = h(s.editor, req.Args)
		return err
	})
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, OK: true, Data: data}
}
