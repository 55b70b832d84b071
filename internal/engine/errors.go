package engine

import "errors"

var (
	ErrNoScene        = errors.New("engine: no current scene")
	ErrAlreadyPlaying = errors.New("engine: current scene is already a play copy")
	ErrNotPlaying     = errors.New("engine: current scene is not a play copy")
	ErrCopyFailed     = errors.New("engine: failed to copy scene")
	ErrClosed         = errors.New("engine: closed")
)
