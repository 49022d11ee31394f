// Package main provides the arena client binary: one local simulation that
// owns its player, mirrors its peers, and exchanges sync events through the
// relay.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/config"
	"github.com/riftforge/arena/internal/game/combat"
	"github.com/riftforge/arena/internal/game/control"
	"github.com/riftforge/arena/internal/game/cooldown"
	"github.com/riftforge/arena/internal/game/debuff"
	"github.com/riftforge/arena/internal/game/geom"
	"github.com/riftforge/arena/internal/game/projectile"
	"github.com/riftforge/arena/internal/game/resource"
	"github.com/riftforge/arena/internal/game/rng"
	"github.com/riftforge/arena/internal/game/weapon"
	"github.com/riftforge/arena/internal/game/world"
	"github.com/riftforge/arena/internal/gameserver"
	"github.com/riftforge/arena/internal/observability"
	"github.com/riftforge/arena/internal/server"
)

// noInput is the headless device layer. Platform front-ends replace it with
// real keyboard and mouse polling; the simulation does not care which.
type noInput struct{}

func (noInput) IsActionActive(control.Action) bool { return false }
func (noInput) MoveDirection() geom.Vec3           { return geom.Vec3{} }

type steadyAim struct{}

func (steadyAim) Forward() geom.Vec3 { return geom.Vec3{Z: 1} }

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/arena.yaml", "path to configuration file")
	playerID := flag.String("player", "", "player id for this client; empty = generated")
	primary := flag.String("primary", "sabres", "primary weapon kind")
	secondary := flag.String("secondary", "bow", "secondary weapon kind")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	localID := *playerID
	if localID == "" {
		host, _ := os.Hostname()
		localID = host + "-" + uuid.NewString()[:8]
	}

	// Definition registries: built-in baseline plus optional content packs.
	registry := weapon.DefaultRegistry()
	if cfg.Content.AbilitiesDir != "" {
		if err := registry.LoadDirectory(cfg.Content.AbilitiesDir); err != nil {
			logger.Fatal("loading ability content pack",
				zap.String("dir", cfg.Content.AbilitiesDir), zap.Error(err))
		}
		logger.Info("ability content pack loaded", zap.String("dir", cfg.Content.AbilitiesDir))
	}
	debuffs := debuff.DefaultRegistry()
	if cfg.Content.DebuffsDir != "" {
		if err := debuffs.LoadDirectory(cfg.Content.DebuffsDir); err != nil {
			logger.Fatal("loading debuff content pack",
				zap.String("dir", cfg.Content.DebuffsDir), zap.Error(err))
		}
		logger.Info("debuff content pack loaded", zap.String("dir", cfg.Content.DebuffsDir))
	}

	loadout, err := weapon.NewLoadout(weapon.Kind(*primary), weapon.Kind(*secondary))
	if err != nil {
		logger.Fatal("building loadout",
			zap.String("primary", *primary),
			zap.String("secondary", *secondary),
			zap.Error(err))
	}

	// Connect to the relay before spawning anything so the emitter is live
	// from the first tick.
	relayStart := time.Now()
	relay, err := gameserver.DialRelay(ctx, cfg.Relay.Addr(), cfg.Relay.Room, localID, logger)
	if err != nil {
		logger.Fatal("connecting to relay", zap.Error(err))
	}
	logger.Info("relay session established",
		zap.String("room", cfg.Relay.Room),
		zap.Duration("elapsed", time.Since(relayStart)),
	)

	store := world.NewStore(world.Bounds{
		MinX: -cfg.Arena.HalfWidth, MaxX: cfg.Arena.HalfWidth,
		MinZ: -cfg.Arena.HalfDepth, MaxZ: cfg.Arena.HalfDepth,
	})
	resolver := combat.NewResolver(store, relay, localID, logger)
	spawner := projectile.NewSystem(store, resolver, logger)
	pools := resource.NewPools(registry)
	hooks := gameserver.NewHookRunner(resolver, cfg.Simulation.LuaInstructionLimit, logger)
	draws := rng.NewLoggedSource(rng.NewCryptoSource(), logger)

	player := &world.Entity{
		ID:        localID,
		Category:  world.CategoryPlayer,
		Local:     true,
		Facing:    geom.Vec3{Z: 1},
		Health:    200,
		MaxHealth: 200,
		Radius:    0.5,
		Debuffs:   debuff.NewSet(localID, hooks),
	}
	if err := store.Add(player); err != nil {
		logger.Fatal("adding local player", zap.Error(err))
	}

	ctrl := control.NewController(control.Config{
		SwitchInterval:   cfg.Simulation.SwitchInterval,
		ComboResetWindow: cfg.Simulation.ComboResetWindow,
	}, control.Deps{
		LocalID:   localID,
		Registry:  registry,
		Debuffs:   debuffs,
		Loadout:   loadout,
		Unlocks:   weapon.NewUnlocks(),
		Pools:     pools,
		Cooldowns: cooldown.NewTracker(),
		Resolver:  resolver,
		Spawner:   spawner,
		Store:     store,
		Input:     noInput{},
		Orient:    steadyAim{},
		Emitter:   relay,
		Intn:      draws.Intn,
		Logger:    logger,
	})

	sim := gameserver.NewSimulation(gameserver.SimDeps{
		LocalID:    localID,
		Store:      store,
		Controller: ctrl,
		Resolver:   resolver,
		Spawner:    spawner,
		Pools:      pools,
		Debuffs:    debuffs,
		Emitter:    relay,
		Logger:     logger,
	})

	ticker := gameserver.NewMatchTicker(cfg.Simulation.TickInterval)
	ticker.RegisterStep("simulation", sim.Step)

	lifecycle := server.NewLifecycle(logger)

	tickCtx, stopTicks := context.WithCancel(ctx)
	lifecycle.Add("match-ticker", &server.FuncService{
		StartFn: func() error {
			ticker.Start(tickCtx)
			<-tickCtx.Done()
			return nil
		},
		StopFn: stopTicks,
	})

	lifecycle.Add("relay-listener", &server.FuncService{
		StartFn: func() error {
			relay.Listen(tickCtx, sim.Deliver)
			return nil
		},
		StopFn: func() {
			if err := relay.Close(); err != nil {
				logger.Warn("closing relay connection", zap.Error(err))
			}
		},
	})

	logger.Info("arena client initialized",
		zap.String("player", localID),
		zap.String("primary", *primary),
		zap.String("secondary", *secondary),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("client error", zap.Error(err))
	}
}
