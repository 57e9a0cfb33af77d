// Package migrate applies the SQL scripts below a migrations directory.
//
// The layout is fixed:
//
//	<root>/schema/*.sql
//	<root>/functions/*.sql
//
// Files of one directory run in lexicographic order inside a single transaction. There is no
// version tracking, running twice is only safe with idempotent scripts.
package migrate

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Directory names below the migrations root, in the order they are applied.
const (
	SchemaDir    = "schema"
	FunctionsDir = "functions"
)

// Options selects the directories to apply.
type Options struct {
	Schema    bool
	Functions bool
}

// Result lists the applied files per directory.
type Result struct {
	Dir   string
	Files []string
}

// Runner applies migration directories on one engine.
type Runner struct {
	db   *gorm.DB
	root string

	// Progress is called after each successfully executed file. Optional.
	Progress func(dir, file string)
}

// New creates a runner for the migrations below root.
func New(db *gorm.DB, root string) *Runner {
	return &Runner{db: db, root: root}
}

// Run applies schema and then functions scripts as selected by opts.
// The first failing directory is rolled back and stops the run.
func (r *Runner) Run(ctx context.Context, opts Options) ([]Result, error) {
	var results []Result

	for _, step := range []struct {
		enabled bool
		name    string
	}{
		{opts.Schema, SchemaDir},
		{opts.Functions, FunctionsDir},
	} {
		if !step.enabled {
			continue
		}

		res, err := r.RunDir(ctx, filepath.Join(r.root, step.name))
		if err != nil {
			return results, err
		}

		results = append(results, res)
	}

	return results, nil
}

// RunDir executes every *.sql file in dir in one transaction. A missing directory or a
// directory without sql files is skipped.
func (r *Runner) RunDir(ctx context.Context, dir string) (Result, error) {
	res := Result{Dir: dir}

	files, err := sqlFiles(dir)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("dir", dir).Msg("migration directory not found, skipping")
		return res, nil
	}

	if err != nil {
		return res, err
	}

	if len(files) == 0 {
		log.Info().Str("dir", dir).Msg("no sql files found, skipping")
		return res, nil
	}

	log.Info().Str("dir", dir).Int("files", len(files)).Msg("running sql scripts")

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, file := range files {
			script, rerr := os.ReadFile(filepath.Join(dir, file))
			if rerr != nil {
				return errors.Wrapf(rerr, "failed to read %s", file)
			}

			if xerr := tx.Exec(string(script)).Error; xerr != nil {
				return errors.Wrapf(xerr, "failed to run %s", file)
			}

			log.Info().Str("dir", dir).Str("file", file).Msg("completed sql script")

			if r.Progress != nil {
				r.Progress(dir, file)
			}

			res.Files = append(res.Files, file)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("sql scripts rolled back")
		res.Files = nil

		return res, err //nolint:wrapcheck
	}

	return res, nil
}

// sqlFiles lists the *.sql file names in dir, sorted.
func sqlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	var files []string

	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)

	return files, nil
}
