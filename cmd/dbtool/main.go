// Command dbtool inspects and resets the local worklog database.
//
//	dbtool dump             print every user as JSON
//	dbtool backup           upload the sqlite file to the R2 bucket
//	dbtool reset [-backup]  delete the sqlite file, optionally backing it up first
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/rohits-web03/worklog/internal/config"
	"github.com/rohits-web03/worklog/internal/logging"
	"github.com/rohits-web03/worklog/internal/repositories"
)

type userSummary struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	LoggedIn  bool      `json:"loggedIn"`
	CreatedAt time.Time `json:"createdAt"`
}

func main() {
	logging.Init(logging.Config{Level: config.Envs.LogLevel, Format: "console"})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "dump":
		err = dump(ctx, os.Stdout)
	case "backup":
		_, err = backup(ctx, config.Envs.DB_URL)
	case "reset":
		fs := flag.NewFlagSet("reset", flag.ExitOnError)
		withBackup := fs.Bool("backup", false, "upload the database to R2 before deleting it")
		_ = fs.Parse(os.Args[2:])
		err = reset(ctx, config.Envs.DB_URL, *withBackup)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("dbtool failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: dbtool dump | backup | reset [-backup]")
}

func dump(ctx context.Context, out io.Writer) error {
	db, err := repositories.Open(config.Envs.DBDriver, config.Envs.DB_URL, logger.Default.LogMode(logger.Silent))
	if err != nil {
		return err
	}
	repositories.DB = db

	users, err := repositories.ListUsers(ctx)
	if err != nil {
		return err
	}
	summaries := make([]userSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, userSummary{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			LoggedIn:  u.APIKey != nil,
			CreatedAt: u.CreatedAt,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}

func sqliteOnly() error {
	if config.Envs.DBDriver != "sqlite" {
		return fmt.Errorf("only the sqlite driver keeps a local database file (DB_DRIVER=%s)", config.Envs.DBDriver)
	}
	return nil
}

func backup(ctx context.Context, path string) (string, error) {
	if err := sqliteOnly(); err != nil {
		return "", err
	}
	r2 := config.Envs.R2
	if !r2.Enabled() {
		return "", errors.New("R2 credentials are not configured")
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("open database file: %w", err)
	}
	if err := checkpoint(path); err != nil {
		return "", err
	}
	repositories.InitR2(r2.AccessKeyID, r2.SecretAccessKey, r2.AccountID, r2.BucketName, r2.Region)

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open database file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("backups/%s-%s", time.Now().UTC().Format("20060102T150405Z"), filepath.Base(path))
	if err := repositories.UploadBackup(ctx, key, f, info.Size()); err != nil {
		return "", err
	}
	ok, err := repositories.VerifyObjectExists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("verify backup: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("backup %s not found after upload", key)
	}

	log.Info().Str("key", key).Int64("bytes", info.Size()).Msg("Database backed up")
	return key, nil
}

// checkpoint folds the write-ahead log into the main file so the file alone
// is a complete copy.
func checkpoint(path string) error {
	db, err := repositories.Open("sqlite", path, logger.Default.LogMode(logger.Silent))
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return fmt.Errorf("checkpoint database: %w", err)
	}
	return nil
}

func reset(ctx context.Context, path string, withBackup bool) error {
	if err := sqliteOnly(); err != nil {
		return err
	}
	if withBackup {
		if _, err := backup(ctx, path); err != nil {
			return err
		}
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	for _, sidecar := range []string{path + "-wal", path + "-shm"} {
		if err := os.Remove(sidecar); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", filepath.Base(sidecar), err)
		}
	}
	log.Info().Str("file", path).Msg("Database file deleted successfully")
	return nil
}
