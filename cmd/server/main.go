package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/globatech/sirest/internal/bootstrap"
	"github.com/globatech/sirest/internal/config"
	"github.com/globatech/sirest/internal/db"
	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/notify"
	"github.com/globatech/sirest/internal/server"
	"github.com/globatech/sirest/internal/services"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.Env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if *migrateOnlyFlag {
		if _, err := db.Connect(cfg.DatabaseDSN, true); err != nil {
			log.WithError(err).Fatal("migrate-only failed")
		}
		log.Info("migrations completed; exiting as requested")
		return
	}

	conn, err := db.Connect(cfg.DatabaseDSN, cfg.Migrations)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.WithError(err).Warn("broker unavailable, alerts stay local")
		} else {
			notifier = amqpNotifier
			defer notifier.Close()
		}
	}

	if cfg.Seed {
		kv := kvstore.New(conn)
		repos := services.NewRepos(kv)
		settings := services.NewSettings(kv, server.DefaultConfiguration(cfg))
		if err := bootstrap.Run(context.Background(), kv, repos, settings, log); err != nil {
			log.WithError(err).Fatal("seed failed")
		}
	}

	handler := server.New(cfg, conn, notifier, log)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		log.WithFields(logrus.Fields{"env": cfg.Env, "addr": srv.Addr}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server gracefully stopped")
}
