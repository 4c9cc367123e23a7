// Package tests holds helpers shared by package tests.
package tests

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pagechat/database"
	"pagechat/logger"
)

// SetupTestDB opens a migrated sqlite database in a per-test directory and
// closes it when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("Error closing test database: %v", err)
		}
	})
	return db
}

// CreateTestApp initializes a new Fiber app for testing purposes.
func CreateTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return ctx.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
}

// SamplePage is a small page exercising every extraction rule.
const SamplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Sample Page</title>
  <style>body { color: red; }</style>
  <script>var tracking = "ignored";</script>
</head>
<body>
  <header><a href="/home">Home</a> Site header text</header>
  <nav><a href="https://example.com/nav">Nav link</a></nav>
  <main>
    <h1>Welcome   to the
       sample</h1>
    <p>The gopher mascot was designed by Renee French in 2009.</p>
    <p>Go programs compile quickly into a single static binary.</p>
    <a href="https://go.dev/doc">Docs</a>
    <a href="mailto:team@example.com">Mail</a>
    <a href="#top">Top</a>
    <a href="/blog">Blog</a>
  </main>
  <footer>Footer text</footer>
</body>
</html>`

// NewOriginServer serves pages keyed by path and 404s everything else.
func NewOriginServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
