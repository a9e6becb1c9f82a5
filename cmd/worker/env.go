package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fund-Investment-Results/internal/app"
	"github.com/ndewijer/Fund-Investment-Results/internal/config"
	"github.com/ndewijer/Fund-Investment-Results/internal/database"
	"github.com/ndewijer/Fund-Investment-Results/internal/logging"
)

// env is the process state shared by every command.
type env struct {
	ctx    context.Context
	db     *sql.DB
	app    *app.App
	logger zerolog.Logger
}

// openEnv loads the configuration, opens and migrates the database and wires the services.
// The returned close function releases the database.
func openEnv(ctx context.Context) (*env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.Setup(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log configuration: %w", err)
	}
	ctx = logger.WithContext(ctx)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	e := &env{
		ctx:    ctx,
		db:     db,
		app:    app.New(db, cfg, nil),
		logger: logger,
	}
	return e, func() { db.Close() }, nil
}

// decodeFile reads a JSON document from path, or from stdin when path is "-".
func decodeFile[T any](path string) (T, error) {
	var v T
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return v, err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return v, nil
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
