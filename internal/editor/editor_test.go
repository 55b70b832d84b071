package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/components"
	"github.com/zeusync/lowengine/internal/core/ecs"
	"github.com/zeusync/lowengine/internal/core/graphics"
	"github.com/zeusync/lowengine/internal/core/scene"
	"github.com/zeusync/lowengine/internal/engine"
)

type fixture struct {
	ed     *Editor
	eng    *engine.Engine
	hero   ecs.EntityID
	camera ecs.EntityID
	empty  ecs.EntityID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg := assets.NewRegistry(assets.LoaderFunc(func(string) (int, int, error) { return 64, 32, nil }), nil)
	heroTex, err := reg.LoadTextureWithAnimationSheet("hero.png", "hero", 16, 16, 4, 2)
	require.NoError(t, err)
	require.NoError(t, reg.AddAnimationClip(heroTex, "idle", 0, 4, 0.1))
	require.NoError(t, reg.AddAnimationClip(heroTex, "run", 4, 4, 0.05))

	m := scene.NewManager(reg, nil, nil)
	s := m.CreateScene("Level")

	hero, err := s.AddEntity("hero")
	require.NoError(t, err)
	_, err = scene.AddComponent[components.Transform](s, hero)
	require.NoError(t, err)
	_, err = scene.AddComponent[components.Sprite](s, hero, components.WithTexture(heroTex))
	require.NoError(t, err)
	anim, err := scene.AddComponent[components.AnimatedSprite](s, hero)
	require.NoError(t, err)
	require.NoError(t, anim.Play("idle", true))

	cam, err := s.AddEntity("camera")
	require.NoError(t, err)
	_, err = scene.AddComponent[components.Transform](s, cam)
	require.NoError(t, err)
	_, err = scene.AddComponent[components.Camera](s, cam)
	require.NoError(t, err)

	empty, err := s.AddEntity("empty")
	require.NoError(t, err)

	eng := engine.New(m, nil, 0)
	return fixture{ed: New(eng, nil), eng: eng, hero: hero, camera: cam, empty: empty}
}

func TestOutlineRows(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.ed.Select(f.camera))

	o := f.ed.Outline()
	assert.Equal(t, "Level", o.Scene)
	require.Len(t, o.Rows, 3)
	assert.Equal(t, "[0] hero_0", o.Rows[0].Label)
	assert.Equal(t, "[1] camera_1", o.Rows[1].Label)
	assert.True(t, o.Rows[1].Selected)
	assert.False(t, o.Rows[0].Selected)

	assert.False(t, f.ed.Select(404))
	id, ok := f.ed.Selected()
	assert.True(t, ok)
	assert.Equal(t, f.camera, id)
}

func TestPropertiesReflectComponents(t *testing.T) {
	f := newFixture(t)
	_, err := f.ed.Properties()
	assert.ErrorIs(t, err, ErrNoSelection)

	require.True(t, f.ed.Select(f.hero))
	p, err := f.ed.Properties()
	require.NoError(t, err)
	assert.Equal(t, []string{"Transform", "Sprite", "AnimatedSprite"}, p.Components)
	require.NotNil(t, p.Transform)
	require.NotNil(t, p.AnimatedSprite)
	assert.Nil(t, p.Camera)
	assert.Equal(t, "idle", p.AnimatedSprite.Clip)
	assert.Equal(t, []string{"idle", "run"}, p.AnimatedSprite.Clips)
	assert.Equal(t, uint32(3), p.AnimatedSprite.EndFrame)

	require.True(t, f.ed.Select(f.camera))
	p, err = f.ed.Properties()
	require.NoError(t, err)
	require.NotNil(t, p.Camera)
	assert.Equal(t, 1.0, p.Camera.ZoomFactor)
}

func TestTransformEditsRefreshScene(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.ed.Select(f.hero))

	require.NoError(t, f.ed.SetPosition(12, 34))
	require.NoError(t, f.ed.SetRotation(45))
	require.NoError(t, f.ed.SetScale(2, 2))

	s := f.eng.Scenes().GetCurrentScene()
	sprite := scene.GetComponent[components.Sprite](s, f.hero)
	assert.Equal(t, graphics.Vec2{X: 12, Y: 34}, sprite.Sprite.Position)
	assert.Equal(t, 45.0, sprite.Sprite.Rotation)
	assert.Equal(t, graphics.Vec2{X: 2, Y: 2}, sprite.Sprite.Scale)

	require.True(t, f.ed.Select(f.empty))
	assert.ErrorIs(t, f.ed.SetPosition(1, 1), ErrNoComponent)
}

func TestClipAndZoomEdits(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.ed.Select(f.hero))
	require.NoError(t, f.ed.SetClip("run"))

	s := f.eng.Scenes().GetCurrentScene()
	anim := scene.GetComponent[components.AnimatedSprite](s, f.hero)
	assert.Equal(t, "run", anim.Clip.Name)
	assert.True(t, anim.Loop)
	assert.Equal(t, graphics.Rect{X: 0, Y: 16, W: 16, H: 16},
		scene.GetComponent[components.Sprite](s, f.hero).Sprite.Source)
	assert.ErrorIs(t, f.ed.SetClip("fly"), assets.ErrUnknownClip)
	assert.ErrorIs(t, f.ed.SetZoom(2), ErrNoComponent)

	require.True(t, f.ed.Select(f.camera))
	require.NoError(t, f.ed.SetZoom(2))
	cam := scene.GetComponent[components.Camera](s, f.camera)
	assert.Equal(t, components.DefaultViewSize.Scale(2), cam.View().Size)
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ed.Rename("x"), ErrNoSelection)
	require.True(t, f.ed.Select(f.hero))
	assert.ErrorIs(t, f.ed.Rename(""), ErrEmptyName)
	require.NoError(t, f.ed.Rename("Player"))
	assert.Equal(t, "[0] Player", f.ed.Outline().Rows[0].Label)
}

func TestPlayClearsSelectionAndEditsStayInCopy(t *testing.T) {
	f := newFixture(t)
	edited := f.eng.Scenes().GetCurrentScene()
	require.True(t, f.ed.Select(f.hero))

	require.NoError(t, f.ed.Play())
	_, ok := f.ed.Selected()
	assert.False(t, ok)

	o := f.ed.Outline()
	assert.True(t, o.Temporary)
	require.Len(t, o.Rows, 3)
	require.True(t, f.ed.Select(o.Rows[0].ID))
	require.NoError(t, f.ed.SetPosition(100, 0))
	require.NoError(t, f.ed.TogglePause())
	assert.True(t, f.ed.Outline().Paused)

	require.NoError(t, f.ed.Stop())
	assert.Same(t, edited, f.eng.Scenes().GetCurrentScene())
	assert.Zero(t, scene.GetComponent[components.Transform](edited, f.hero).Position.X)
	_, ok = f.ed.Selected()
	assert.False(t, ok)
}
