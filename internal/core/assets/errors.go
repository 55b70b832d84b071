package assets

import "errors"

var (
	ErrUnknownAlias     = errors.New("assets: texture alias does not exist")
	ErrUnknownTexture   = errors.New("assets: texture id does not exist")
	ErrSheetExists      = errors.New("assets: texture already has an animation sheet")
	ErrNoAnimationSheet = errors.New("assets: texture has no animation sheet")
	ErrInvalidSheet     = errors.New("assets: invalid animation sheet dimensions")
	ErrInvalidClip      = errors.New("assets: invalid animation clip")
	ErrUnknownClip      = errors.New("assets: animation clip does not exist")
	ErrAliasTaken       = errors.New("assets: alias already bound")
)
