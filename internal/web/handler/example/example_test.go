package example

import (
	"encoding/json"
	"io"
	"math"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/erickhv92/go-api-template/internal/db/queries"
	"github.com/erickhv92/go-api-template/internal/db/session"
	"github.com/erickhv92/go-api-template/internal/web/response"
)

// queriesDir is the repository query directory.
var queriesDir = filepath.Join("..", "..", "..", "..", "db", "queries") //nolint:gochecknoglobals

// setupTestDB creates a file backed SQLite database with 25 examples, every third one inactive.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "examples.db")), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.Exec(`CREATE TABLE examples (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`).Error)

	for i := 1; i <= 25; i++ {
		status := "active"
		if i%3 == 0 {
			status = "inactive"
		}

		require.NoError(t, db.Exec("INSERT INTO examples (id, name, status) VALUES (?, ?, ?)",
			i, "example", status).Error)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func setupApp(t *testing.T, db *gorm.DB, root string) *fiber.App {
	t.Helper()

	app := fiber.New()
	s := &Service{}
	require.NoError(t, s.Init(app.Group("/api/v1"), session.NewFromDB(db, time.Second), queries.New(root)))

	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))

	return resp.StatusCode, out
}

func TestInitNilDependencies(t *testing.T) {
	s := &Service{}
	assert.Error(t, s.Init(nil, nil, nil))
}

func TestGet(t *testing.T) {
	app := setupApp(t, setupTestDB(t), queriesDir)

	tests := []struct {
		name      string
		target    string
		wantTotal float64
		wantPage  float64
		wantSize  float64
		wantPages float64
		wantItems int
		wantFirst float64
	}{
		{"defaults", "/api/v1/examples", 25, 1, 10, 3, 10, 1},
		{"explicit first page", "/api/v1/examples?page=1&page_size=10", 25, 1, 10, 3, 10, 1},
		{"last partial page", "/api/v1/examples?page=3&page_size=10", 25, 3, 10, 3, 5, 21},
		{"past the end", "/api/v1/examples?page=9&page_size=10", 25, 9, 10, 3, 0, 0},
		{"max page size", "/api/v1/examples?page_size=100", 25, 1, 100, 1, 25, 1},
		{"status filter", "/api/v1/examples?status=inactive&page_size=5", 8, 1, 5, 2, 5, 3},
		{"unknown status", "/api/v1/examples?status=deleted", 0, 1, 10, 0, 0, 0},
		{"page beyond int range", "/api/v1/examples?page=9223372036854775807&page_size=10", 25, float64(math.MaxInt), 10, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, app, tt.target)
			require.Equal(t, fiber.StatusOK, status)

			for _, key := range []string{"success", "total", "page", "page_size", "pages", "items"} {
				assert.Contains(t, body, key)
			}

			assert.Equal(t, true, body["success"])
			assert.Equal(t, tt.wantTotal, body["total"])
			assert.Equal(t, tt.wantPage, body["page"])
			assert.Equal(t, tt.wantSize, body["page_size"])
			assert.Equal(t, tt.wantPages, body["pages"])

			items, ok := body["items"].([]any)
			require.True(t, ok)
			assert.Len(t, items, tt.wantItems)
			assert.LessOrEqual(t, len(items), int(tt.wantSize))

			if tt.wantItems > 0 {
				first, ok := items[0].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.wantFirst, first["id"])
			}
		})
	}
}

func TestGetValidation(t *testing.T) {
	app := setupApp(t, setupTestDB(t), queriesDir)

	tests := []struct {
		name      string
		target    string
		wantField string
	}{
		{"page zero", "/api/v1/examples?page=0", "page"},
		{"negative page", "/api/v1/examples?page=-1", "page"},
		{"page size zero", "/api/v1/examples?page_size=0", "page_size"},
		{"page size too large", "/api/v1/examples?page_size=101", "page_size"},
		{"page not a number", "/api/v1/examples?page=abc", "query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, app, tt.target)
			assert.Equal(t, fiber.StatusUnprocessableEntity, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, response.ErrorCodeValidation, body["error_code"])

			details, ok := body["details"].(map[string]any)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestGetInternalError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, CountFile), []byte("SELECT COUNT(*) AS total FROM nothing_here"), 0o600))

	app := setupApp(t, setupTestDB(t), root)

	status, body := get(t, app, "/api/v1/examples")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "nothing_here")
	assert.NotContains(t, body, "error_code")
}

func TestGetMissingQueryFile(t *testing.T) {
	app := setupApp(t, setupTestDB(t), t.TempDir())

	status, body := get(t, app, "/api/v1/examples")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in      any
		want    int
		wantErr bool
	}{
		{nil, 0, false},
		{int64(42), 42, false},
		{int32(7), 7, false},
		{float64(3), 3, false},
		{[]byte("12"), 12, false},
		{"5", 5, false},
		{"five", 0, true},
		{true, 0, true},
	}

	for _, tt := range tests {
		got, err := toInt(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
