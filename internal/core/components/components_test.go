package components

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/ecs"
	"github.com/zeusync/lowengine/internal/core/graphics"
)

func newRegistry(t *testing.T) *assets.Registry {
	t.Helper()
	r := assets.NewRegistry(assets.LoaderFunc(func(path string) (int, int, error) {
		switch path {
		case "hero.png":
			return 128, 64, nil
		case "rock.png":
			return 40, 30, nil
		}
		return 0, 0, errors.New("no such file")
	}), nil)

	_, err := r.LoadTextureWithAnimationSheet("hero.png", "hero", 32, 32, 4, 2)
	require.NoError(t, err)
	require.NoError(t, r.AddAnimationClipAlias("hero", "idle", 0, 4, 0.1))
	require.NoError(t, r.AddAnimationClipAlias("hero", "jump", 4, 2, 0.1))
	_, err = r.LoadTextureAs("rock.png", "rock")
	require.NoError(t, err)
	return r
}

func newArena(t *testing.T) *ecs.Arena {
	return ecs.NewArena(ecs.NewIDAllocator(), newRegistry(t), nil)
}

func spawn(t *testing.T, a *ecs.Arena, name string) ecs.EntityID {
	t.Helper()
	e, err := a.CreateEntity(name)
	require.NoError(t, err)
	return e.ID
}

func TestTransformDefaults(t *testing.T) {
	a := newArena(t)
	id := spawn(t, a, "E")
	tr, err := ecs.CreateComponent[Transform](a, id, At(5, 6))
	require.NoError(t, err)
	assert.Equal(t, graphics.Vec2{X: 5, Y: 6}, tr.Position)
	assert.Equal(t, graphics.Vec2{X: 1, Y: 1}, tr.Scale)
}

func TestSpriteRequiresTransform(t *testing.T) {
	a := newArena(t)
	e1 := spawn(t, a, "E1")
	e2 := spawn(t, a, "E2")

	_, err := ecs.CreateComponent[Transform](a, e1)
	require.NoError(t, err)
	_, err = ecs.CreateComponent[Sprite](a, e1)
	require.NoError(t, err)

	s, err := ecs.CreateComponent[Sprite](a, e2)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ecs.ErrDependencyMissing)
	assert.False(t, a.Entity(e2).HasComponent(SpriteType))
}

func TestSpriteFollowsTransform(t *testing.T) {
	a := newArena(t)
	id := spawn(t, a, "E")
	tr, err := ecs.CreateComponent[Transform](a, id, At(1, 2))
	require.NoError(t, err)
	s, err := ecs.CreateComponent[Sprite](a, id, OnLayer(4))
	require.NoError(t, err)

	assert.Equal(t, graphics.Vec2{X: 1, Y: 2}, s.Sprite.Position)
	assert.Equal(t, assets.DefaultTextureID, s.TextureID)
	assert.Equal(t, graphics.Rect{W: 32, H: 32}, s.Sprite.Source)

	tr.Position = graphics.Vec2{X: 10, Y: 20}
	tr.Rotation = 90
	a.UpdateAll(0)

	r, ok := s.Draw()
	require.True(t, ok)
	assert.Equal(t, 4, r.Layer)
	assert.Equal(t, graphics.Vec2{X: 10, Y: 20}, r.Sprite.Position)
	assert.Equal(t, 90.0, r.Sprite.Rotation)
}

func TestSpriteTextureSelection(t *testing.T) {
	a := newArena(t)
	id := spawn(t, a, "E")
	_, err := ecs.CreateComponent[Transform](a, id)
	require.NoError(t, err)
	s, err := ecs.CreateComponent[Sprite](a, id)
	require.NoError(t, err)

	require.NoError(t, s.SetSprite("rock"))
	assert.Equal(t, graphics.Rect{W: 40, H: 30}, s.Sprite.Source)
	rock := s.TextureID

	err = s.SetSprite("ghost")
	assert.ErrorIs(t, err, assets.ErrUnknownAlias)
	assert.Equal(t, rock, s.TextureID, "failed alias leaves sprite unchanged")

	s.SetSpriteID(99)
	assert.Equal(t, assets.DefaultTextureID, s.TextureID, "unknown ids fall back to the default")
}

func newAnimated(t *testing.T, a *ecs.Arena) (*Sprite, *AnimatedSprite) {
	t.Helper()
	id := spawn(t, a, "hero")
	hero, err := a.Assets().Resolve("hero")
	require.NoError(t, err)
	_, err = ecs.CreateComponent[Transform](a, id)
	require.NoError(t, err)
	s, err := ecs.CreateComponent[Sprite](a, id, WithTexture(hero))
	require.NoError(t, err)
	anim, err := ecs.CreateComponent[AnimatedSprite](a, id)
	require.NoError(t, err)
	return s, anim
}

func TestAnimatedSpritePlayback(t *testing.T) {
	a := newArena(t)
	s, anim := newAnimated(t, a)
	require.NotNil(t, anim.Sheet, "sheet comes from the sprite's texture")

	require.NoError(t, anim.Play("idle", true))
	assert.Equal(t, graphics.Rect{X: 0, Y: 0, W: 32, H: 32}, s.Sprite.Source)

	a.UpdateAll(0.25)
	assert.Equal(t, uint32(2), anim.Frame)
	assert.Equal(t, graphics.Rect{X: 64, Y: 0, W: 32, H: 32}, s.Sprite.Source)

	a.UpdateAll(0.2)
	assert.Equal(t, uint32(0), anim.Frame, "looping clips wrap")
	assert.True(t, anim.Playing)

	err := anim.Play("fly", false)
	assert.ErrorIs(t, err, assets.ErrUnknownClip)
	assert.Equal(t, "idle", anim.Clip.Name)
}

func TestAnimatedSpriteQueue(t *testing.T) {
	a := newArena(t)
	s, anim := newAnimated(t, a)

	require.NoError(t, anim.Play("jump", false))
	require.NoError(t, anim.PlayNext("idle", true))
	assert.Equal(t, []QueuedClip{{Name: "idle", Loop: true}}, anim.Queue())

	a.UpdateAll(0.2)
	assert.Equal(t, "idle", anim.Clip.Name)
	assert.Equal(t, uint32(0), anim.Frame)
	assert.Empty(t, anim.Queue())
	assert.Equal(t, graphics.Rect{X: 0, Y: 0, W: 32, H: 32}, s.Sprite.Source)

	require.NoError(t, anim.Play("jump", false))
	a.UpdateAll(0.35)
	assert.False(t, anim.Playing)
	assert.Equal(t, uint32(1), anim.Frame, "non-looping clips hold the last frame")
	assert.Equal(t, graphics.Rect{X: 32, Y: 32, W: 32, H: 32}, s.Sprite.Source)
}

func TestAnimatedSpriteLongStall(t *testing.T) {
	a := newArena(t)
	s, anim := newAnimated(t, a)

	require.NoError(t, anim.Play("idle", true))
	a.UpdateAll(1e6 + 0.25)
	assert.Equal(t, uint32(2), anim.Frame)
	assert.InDelta(t, 0.05, anim.Elapsed, 1e-6)
	assert.Equal(t, graphics.Rect{X: 64, Y: 0, W: 32, H: 32}, s.Sprite.Source)

	require.NoError(t, anim.Play("jump", false))
	require.NoError(t, anim.PlayNext("idle", true))
	a.UpdateAll(1e9)
	assert.Equal(t, "idle", anim.Clip.Name)
	assert.True(t, anim.Playing)
	assert.Less(t, anim.Elapsed, anim.Clip.FrameDuration)
}

func TestAnimatedSpriteSetSheet(t *testing.T) {
	a := newArena(t)
	_, anim := newAnimated(t, a)

	err := anim.SetSheet("rock")
	assert.ErrorIs(t, err, assets.ErrNoAnimationSheet)
	assert.ErrorIs(t, anim.SetSheet("ghost"), assets.ErrUnknownAlias)
	require.NoError(t, anim.SetSheet("hero"))
	assert.Nil(t, anim.Clip)
}

func TestUpdateZeroIsIdempotent(t *testing.T) {
	a := newArena(t)
	_, anim := newAnimated(t, a)
	require.NoError(t, anim.Play("idle", true))
	a.UpdateAll(0.13)

	a.UpdateAll(0)
	sum := a.Checksum()
	a.UpdateAll(0)
	assert.Equal(t, sum, a.Checksum())
}

func TestCameraView(t *testing.T) {
	a := newArena(t)
	id := spawn(t, a, "cam")
	tr, err := ecs.CreateComponent[Transform](a, id, At(100, 50))
	require.NoError(t, err)
	cam, err := ecs.CreateComponent[Camera](a, id, Zoom(2))
	require.NoError(t, err)

	v := cam.View()
	assert.Equal(t, graphics.Vec2{X: 100, Y: 50}, v.Center)
	assert.Equal(t, DefaultViewSize.Scale(2), v.Size)

	tr.Position.X = 0
	cam.ZoomFactor = 0.5
	cam.Update(0)
	assert.Equal(t, 0.0, cam.View().Center.X)
	assert.Equal(t, DefaultViewSize.Scale(0.5), cam.View().Size)
}

func TestCloneKeepsSharedAssetsAndCopiesState(t *testing.T) {
	ids := ecs.NewIDAllocator()
	reg := newRegistry(t)
	src := ecs.NewArena(ids, reg, nil)
	_, anim := newAnimated(t, src)
	require.NoError(t, anim.Play("jump", false))
	require.NoError(t, anim.PlayNext("idle", true))

	dst := ecs.NewArena(ids, reg, nil)
	mapping, err := src.CopyInto(dst)
	require.NoError(t, err)
	assert.Equal(t, src.Checksum(), dst.Checksum())

	clone := ecs.GetComponent[AnimatedSprite](dst, mapping[anim.Owner()])
	require.NotNil(t, clone)
	assert.Same(t, anim.Sheet, clone.Sheet)
	assert.Same(t, anim.Clip, clone.Clip)
	assert.Same(t, dst, clone.Arena())

	require.NoError(t, clone.PlayNext("jump", false))
	assert.Len(t, anim.Queue(), 1, "queues are owned per copy")
	assert.Len(t, clone.Queue(), 2)

	dst.UpdateAll(0.1)
	assert.Equal(t, uint32(0), anim.Frame)
	assert.Equal(t, uint32(1), clone.Frame)

	srcSprite := ecs.GetComponent[Sprite](src, anim.Owner())
	dstSprite := ecs.GetComponent[Sprite](dst, clone.Owner())
	assert.NotEqual(t, srcSprite.Sprite.Source, dstSprite.Sprite.Source)
}
