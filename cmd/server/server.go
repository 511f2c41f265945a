package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/habitquest/combat-api/internal/config"
	combatengine "github.com/habitquest/combat-api/internal/engine/combat"
	"github.com/habitquest/combat-api/internal/engine/rewards"
	"github.com/habitquest/combat-api/internal/handlers/httpapi"
	"github.com/habitquest/combat-api/internal/orchestrators/combat"
	"github.com/habitquest/combat-api/internal/orchestrators/dungeon"
	"github.com/habitquest/combat-api/internal/orchestrators/items"
	"github.com/habitquest/combat-api/internal/pkg/clock"
	"github.com/habitquest/combat-api/internal/pkg/idgen"
	"github.com/habitquest/combat-api/internal/pkg/rng"
	redisclient "github.com/habitquest/combat-api/internal/redis"
	"github.com/habitquest/combat-api/internal/repositories/character"
	combatsession "github.com/habitquest/combat-api/internal/repositories/combat_session"
	dungeonprogress "github.com/habitquest/combat-api/internal/repositories/dungeon_progress"
	"github.com/habitquest/combat-api/internal/repositories/inventory"
)

var httpPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the combat API HTTP server with all configured services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&httpPort, "port", 0, "HTTP server port (overrides COMBAT_API_PORT)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = httpPort
	}

	handler, err := buildHandler(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		slog.Info("server stopped")
		return nil
	case err := <-errChan:
		return err
	}
}

// buildHandler wires repositories, engines, and orchestrators from config
func buildHandler(cfg *config.Config) (*httpapi.Handler, error) {
	client, err := redisclient.NewClient(cfg.RedisAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	realClock := clock.New()
	roller := rng.New()

	characterRepo, err := character.NewRedis(&character.RedisConfig{Client: client, Clock: realClock})
	if err != nil {
		return nil, err
	}
	inventoryRepo, err := inventory.NewRedis(&inventory.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	sessionRepo, err := combatsession.NewRedis(&combatsession.Config{Client: client, Clock: realClock})
	if err != nil {
		return nil, err
	}
	progressRepo, err := dungeonprogress.NewRedis(&dungeonprogress.Config{Client: client, Clock: realClock})
	if err != nil {
		return nil, err
	}

	calculator, err := rewards.NewCalculator(&rewards.Config{
		Roller:                   roller,
		DefeatGoldPenaltyPercent: &cfg.DefeatGoldPenaltyPercent,
	})
	if err != nil {
		return nil, err
	}

	combatService, err := combat.NewOrchestrator(&combat.Config{
		CharacterRepo:         characterRepo,
		InventoryRepo:         inventoryRepo,
		SessionRepo:           sessionRepo,
		ProgressRepo:          progressRepo,
		Resolver:              combatengine.NewResolver(roller),
		Calculator:            calculator,
		IDGenerator:           idgen.NewUUID("combat"),
		Clock:                 realClock,
		RestCooldown:          cfg.RestCooldown,
		ResetProgressOnDefeat: cfg.ResetDungeonOnDefeat,
	})
	if err != nil {
		return nil, err
	}

	dungeonService, err := dungeon.NewOrchestrator(&dungeon.Config{
		CharacterRepo: characterRepo,
		SessionRepo:   sessionRepo,
		ProgressRepo:  progressRepo,
		IDGenerator:   idgen.NewUUID("combat"),
		Clock:         realClock,
	})
	if err != nil {
		return nil, err
	}

	itemsService, err := items.NewOrchestrator(&items.Config{
		CharacterRepo: characterRepo,
		InventoryRepo: inventoryRepo,
	})
	if err != nil {
		return nil, err
	}

	return httpapi.NewHandler(&httpapi.Config{
		CombatService:  combatService,
		DungeonService: dungeonService,
		ItemsService:   itemsService,
	})
}
