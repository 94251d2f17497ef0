package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	connectAttempts = 10
	connectInterval = 2 * time.Second
)

var (
	DB *sqlx.DB
)

// Init opens a PostgreSQL connection and assigns it to DB. It retries while
// the database comes up and gives up early once ctx is done.
func Init(ctx context.Context, databaseURL string) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(connectInterval), connectAttempts-1),
		ctx,
	)
	attempt := 0
	connect := func() error {
		attempt++
		conn, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
		if err != nil {
			return err
		}
		DB = conn
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Error().Err(err).
			Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", wait)
	}

	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return fmt.Errorf("could not connect to database after %d attempts: %w", attempt, err)
	}
	log.Info().Int("attempts", attempt).Msg("connected to database")
	return nil
}

// RunMigrations applies every "*.up.sql" file in migrationsPath in name order,
// each inside its own transaction. "*.down.sql" files and blank files are
// skipped.
func RunMigrations(ctx context.Context, migrationsPath string) error {
	files, err := filepath.Glob(filepath.Join(migrationsPath, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration %q: %w", file, err)
		}
		stmt := strings.TrimSpace(string(sqlBytes))
		if stmt == "" {
			continue
		}
		if err := applyMigration(ctx, stmt); err != nil {
			return fmt.Errorf("error executing migration %q: %w", file, err)
		}
		log.Info().Str("file", filepath.Base(file)).Msg("migration applied")
	}
	return nil
}

func applyMigration(ctx context.Context, stmt string) error {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
