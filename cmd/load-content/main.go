package main

import (
	"flag"
	"time"

	"party-relay/internal/config"
	"party-relay/internal/db"
	"party-relay/internal/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	filePath := flag.String("file", "content.csv", "path to a kind,text,detail csv")
	dryRun := flag.Bool("dry-run", false, "validate the file without touching the database")
	flag.Parse()

	dotenvErr := config.LoadDotEnv(".env")
	cfg := config.Load()
	logger.Setup(cfg.LogLevel)
	if dotenvErr != nil {
		log.Warn().Err(dotenvErr).Msg("failed to load .env")
	}

	entries, err := db.ReadContentCSV(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("failed to read content")
	}
	content, err := db.BuildContent(entries)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("invalid content")
	}
	log.Info().
		Int("categories", len(content.Categories)).
		Int("feud_questions", len(content.FeudQuestions)).
		Int("grid_words", len(content.GridWords)).
		Int("bomb_tasks", len(content.BombTasks)).
		Msg("content parsed")
	if *dryRun {
		return
	}

	conn, err := db.Open(cfg.DatabaseURL, db.Pool{
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

	loaded, err := db.ImportContentCSV(conn, *filePath)
	if err != nil {
		log.Fatal().Err(err).Int("loaded", loaded).Msg("failed to upsert content")
	}
	log.Info().Int("loaded", loaded).Msg("content loaded")
}
