package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/lowengine/internal/config"
	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/events/bus"
	"github.com/zeusync/lowengine/internal/core/observability/log"
	"github.com/zeusync/lowengine/internal/core/scene"
	"github.com/zeusync/lowengine/internal/editor"
	"github.com/zeusync/lowengine/internal/engine"
	"github.com/zeusync/lowengine/internal/server"
)

// App is everything cmd/engine needs after startup.
type App struct {
	Config    config.Config
	Logger    log.Log
	Assets    *assets.Registry
	Engine    *engine.Engine
	Editor    *editor.Editor
	Inspector *server.Inspector
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideAssets,
	ProvideManager,
	ProvideEngine,
	ProvideEditor,
	ProvideInspectorConfig,
	ProvideInspector,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg config.Config) log.Log {
	return log.New(cfg.Level())
}

func ProvideBus() bus.Bus {
	return bus.New()
}

// ProvideAssets builds the texture registry and applies the configured
// manifest, if any.
func ProvideAssets(cfg config.Config, logger log.Log) (*assets.Registry, error) {
	registry := assets.NewRegistry(assets.FileLoader{}, logger)
	if cfg.AssetsManifest == "" {
		return registry, nil
	}
	if err := registry.LoadManifestFile(cfg.AssetsManifest); err != nil {
		logger.Error("Failed to load asset manifest", log.String("path", cfg.AssetsManifest), log.Error(err))
		return nil, err
	}
	logger.Info("Asset manifest loaded",
		log.String("path", cfg.AssetsManifest),
		log.Int("textures", registry.Len()))
	return registry, nil
}

func ProvideManager(registry *assets.Registry, events bus.Bus, logger log.Log) *scene.Manager {
	return scene.NewManager(registry, events, logger)
}

func ProvideEngine(scenes *scene.Manager, logger log.Log) *engine.Engine {
	return engine.New(scenes, logger, 0)
}

func ProvideEditor(e *engine.Engine, logger log.Log) *editor.Editor {
	return editor.New(e, logger)
}

func ProvideInspectorConfig(cfg config.Config) server.Config {
	sc := server.DefaultConfig()
	sc.ListenAddr = cfg.Inspector.Addr
	if cfg.Inspector.MaxClients > 0 {
		sc.MaxClients = cfg.Inspector.MaxClients
	}
	if cfg.Inspector.CommandTimeout > 0 {
		sc.CommandTimeout = cfg.Inspector.CommandTimeout
	}
	return sc
}

func ProvideInspector(e *engine.Engine, ed *editor.Editor, sc server.Config, logger log.Log) *server.Inspector {
	return server.NewInspector(e, ed, sc, logger)
}
