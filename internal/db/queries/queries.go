// Package queries runs SQL files from a fixed query directory.
//
// Query files are plain SQL using @name bind variables, e.g.
//
//	SELECT id, name FROM examples WHERE status = @status LIMIT @limit
//
// Files are read from disk on every call, there is no cache.
package queries

import (
	"os"
	"path/filepath"

	"gorm.io/gorm"
)

// Row is one result row, column name to value.
type Row = map[string]any

// Params maps bind variable names to values.
type Params = map[string]any

// Executor runs query files located below Root.
type Executor struct {
	Root string
}

// New returns an executor for the query files below root.
func New(root string) *Executor {
	return &Executor{Root: root}
}

// Path returns the file path of the named query.
func (e *Executor) Path(queryPath string) string {
	return filepath.Join(e.Root, filepath.FromSlash(queryPath))
}

// Execute reads the query file, runs it on db with params bound by name and returns all rows in
// the order the database returned them. File and database errors are returned as they are.
func (e *Executor) Execute(db *gorm.DB, queryPath string, params Params) ([]Row, error) {
	query, err := os.ReadFile(e.Path(queryPath))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	var tx *gorm.DB
	if len(params) > 0 {
		tx = db.Raw(string(query), params)
	} else {
		tx = db.Raw(string(query))
	}

	rows := make([]Row, 0)
	if err = tx.Scan(&rows).Error; err != nil {
		return nil, err //nolint:wrapcheck
	}

	return rows, nil
}

// ExecuteOne returns the first row of the query or nil if the query matched no rows.
func (e *Executor) ExecuteOne(db *gorm.DB, queryPath string, params Params) (Row, error) {
	rows, err := e.Execute(db, queryPath, params)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil //nolint:nilnil
	}

	return rows[0], nil
}
