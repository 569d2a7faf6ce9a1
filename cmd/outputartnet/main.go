package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/copsvsninjas/eegsynth/internal/artnet"
	"github.com/copsvsninjas/eegsynth/internal/config"
	"github.com/copsvsninjas/eegsynth/internal/engine"
	"github.com/copsvsninjas/eegsynth/internal/logger"
	"github.com/copsvsninjas/eegsynth/internal/monitor"
	"github.com/copsvsninjas/eegsynth/internal/patch"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "configs/outputartnet.toml", "Path to configuration file")
}

func main() {
	flag.Parse()
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		fmt.Printf("configuration file read error: %v", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.General.Debug)
	if err != nil {
		fmt.Printf("failed to create a logger: %v", err)
		os.Exit(1)
	}

	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	values := patch.NewPatch(log, cfg)
	if err = values.Ping(ctx); err != nil {
		log.With(logger.Fields{"module": "patch"}).Error("failed to reach the value store:", err.Error())
		os.Exit(1)
	}
	log.With(logger.Fields{"module": "patch"}).Debug("NewPatch created ok")

	mon := monitor.NewMonitor(log, cfg.MQTT)
	if err = mon.Start(ctx); err != nil {
		// monitoring is best-effort, run without it
		log.With(logger.Fields{"module": "monitor"}).Error("failed to start MQTT monitor:", err.Error())
	}

	sender, err := artnet.NewSender(log, cfg.ArtNet.Broadcast, cfg.ArtNet.Port)
	if err != nil {
		log.With(logger.Fields{"module": "art-net"}).Errorf("error while creating the art-net sender. %v", err)
		os.Exit(1)
	}
	log.With(logger.Fields{"module": "art-net"}).Debug("NewSender created ok")

	eng := engine.NewEngine(log, values, sender, mon, cfg)
	eng.Start()

	if err = eng.Run(ctx); err != nil {
		log.Error("failed to stop cleanly:", err.Error())
	}

	if err := mon.Stop(); err != nil {
		log.Error("failed to stop MQTT monitor:", err.Error())
	}

	if err := values.Close(); err != nil {
		log.Error("failed to close the value store:", err.Error())
	}

	log.Info("shutdown complete")
}
