package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"party-relay/internal/bridge"
	"party-relay/internal/config"
	"party-relay/internal/db"
	"party-relay/internal/logger"
	"party-relay/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	dotenvErr := config.LoadDotEnv(".env")
	cfg := config.Load()
	logger.Setup(cfg.LogLevel)
	if dotenvErr != nil {
		log.Warn().Err(dotenvErr).Msg("failed to load .env")
	}
	gin.SetMode(gin.ReleaseMode)

	var conn *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		conn, err = db.Open(cfg.DatabaseURL, db.Pool{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
	} else {
		log.Info().Msg("DATABASE_URL not set; running without journal")
	}

	srv, err := server.New(conn, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("server setup failed")
	}
	defer srv.Close()

	if cfg.NATSURL != "" {
		nc, err := bridge.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("nats connection failed")
		}
		defer nc.Drain()
		if _, err := srv.Bridge().Subscribe(nc, cfg.NATSSubject); err != nil {
			log.Fatal().Err(err).Str("subject", cfg.NATSSubject).Msg("nats subscribe failed")
		}
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("public_url", cfg.PublicURL).Msg("party relay listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown incomplete")
	}
}
