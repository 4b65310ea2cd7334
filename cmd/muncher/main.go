package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/munchclub/muncher/internal/config"
	"github.com/munchclub/muncher/internal/logger"
	"github.com/munchclub/muncher/internal/persistence"
	"github.com/munchclub/muncher/internal/storage"
)

func main() {
	folder := flag.String("folder", "", "data directory (overrides DATA_DIR)")
	interval := flag.Duration("interval", 0, "save interval (overrides SAVE_INTERVAL_SECONDS)")
	flag.Parse()

	cfg := config.Load()
	if *folder != "" {
		cfg.Storage.Dir = *folder
	}
	if *interval > 0 {
		cfg.Save.Interval = *interval
	}

	logger.Initialize(cfg.Log.Level)
	log := logger.Get()

	store, err := storage.NewStore(cfg, persistence.Validator())
	if err != nil {
		log.Fatal("unable to create snapshot store", "error", err)
	}

	manager := persistence.NewManager(store, cfg.Save.SeedData)
	model := manager.LoadOnStartup()
	log.Info("model loaded",
		"participants", len(model.Participants),
		"events", len(model.Events),
		"reservations", len(model.Reservations))

	ticker := time.NewTicker(cfg.Save.Interval)
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if err := manager.Save(model); err != nil {
				log.Error("periodic save failed", "error", err)
			}
		case sig := <-signals:
			log.Info("shutting down", "signal", sig)
			if err := manager.Save(model); err != nil {
				log.Error("shutdown save failed", "error", err)
			}
			return
		}
	}
}
