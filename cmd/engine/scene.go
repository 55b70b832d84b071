package main

import (
	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/components"
	"github.com/zeusync/lowengine/internal/core/graphics"
	"github.com/zeusync/lowengine/internal/core/observability/log"
	"github.com/zeusync/lowengine/internal/core/scene"
	"github.com/zeusync/lowengine/internal/injector"
)

// buildStartupScene creates the configured scene with a camera and one
// sprite per registered alias, laid out in a row. Textures with clips play
// their first clip in a loop.
func buildStartupScene(app *injector.App) error {
	s := app.Engine.Scenes().CreateScene(app.Config.StartupScene)
	viewSize := graphics.Vec2{X: float64(app.Config.Window.Width), Y: float64(app.Config.Window.Height)}

	cam, err := s.AddEntity("Camera")
	if err != nil {
		return err
	}
	if _, err = scene.AddComponent[components.Transform](s, cam, components.At(viewSize.X/2, viewSize.Y/2)); err != nil {
		return err
	}
	if _, err = scene.AddComponent[components.Camera](s, cam, func(c *components.Camera) { c.Size = viewSize }); err != nil {
		return err
	}

	x := 64.0
	for _, alias := range app.Assets.Aliases() {
		id, err := app.Assets.Resolve(alias)
		if err != nil {
			return err
		}
		if err = addActor(s, app.Assets, alias, id, x, viewSize.Y/2); err != nil {
			return err
		}
		x += 96
	}

	app.Logger.Info("Startup scene ready",
		log.String("scene", s.Name),
		log.Int("entities", s.EntityCount()))
	return nil
}

func addActor(s *scene.Scene, registry *assets.Registry, name string, texture assets.TextureID, x, y float64) error {
	id, err := s.AddEntity(name)
	if err != nil {
		return err
	}
	if _, err = scene.AddComponent[components.Transform](s, id, components.At(x, y)); err != nil {
		return err
	}
	if _, err = scene.AddComponent[components.Sprite](s, id, components.WithTexture(texture), components.OnLayer(1)); err != nil {
		return err
	}

	sheet := registry.AnimationSheet(texture)
	if sheet == nil {
		return nil
	}
	anim, err := scene.AddComponent[components.AnimatedSprite](s, id)
	if err != nil {
		return err
	}
	if clips := sheet.ClipNames(); len(clips) > 0 {
		return anim.Play(clips[0], true)
	}
	return nil
}
