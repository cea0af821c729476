package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"focusguard/internal/config"
	"focusguard/internal/confwatch"
	"focusguard/internal/engine"
	"focusguard/internal/game"
	"focusguard/internal/ipc"
	"focusguard/internal/notify"
	"focusguard/internal/proc"
	"focusguard/internal/usage"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("FOCUSGUARD_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	configPath := config.DefaultPath()
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	log.Info().Str("path", configPath).Msg("using config file")

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store := usage.NewStore(cfg.Storage.UsageFile)
	store.Load()

	gameStore := game.NewStore(cfg.Storage.GameFile, cfg.Scoring)
	gameStore.Load()

	var sink engine.AlertSink
	dbusSink, err := notify.NewDBusSink(cfg.Tone)
	if err != nil {
		log.Warn().Err(err).Msg("session bus unavailable, alerts disabled")
		sink = notify.NopSink{}
	} else {
		sink = dbusSink
		defer dbusSink.Close()
	}

	eng := engine.New(cfg, store, gameStore, proc.New(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := eng.Run(ctx); err != nil {
			log.Error().Err(err).Msg("monitor loop error")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Msg("opening session D-Bus service...")
		if err := serveFocusGuard(ctx, eng); err != nil {
			log.Error().Err(err).Msg("focusguard service error")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := confwatch.Watch(ctx, configPath, eng); err != nil {
			log.Warn().Err(err).Msg("config watcher error")
		}
	}()

	wg.Wait()
	fmt.Println("Shutdown complete")
}

func serveFocusGuard(ctx context.Context, eng *engine.Engine) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	reply, err := conn.RequestName(ipc.ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil || reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("failed to request name: %w", err)
	}

	m := &ipc.Manager{Engine: eng}
	if err := conn.Export(m, dbus.ObjectPath(ipc.ObjectPath), ipc.InterfaceName); err != nil {
		return fmt.Errorf("failed to export interface: %w", err)
	}

	<-ctx.Done()
	return nil
}
