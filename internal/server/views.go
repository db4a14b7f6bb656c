package server

import (
	"crypto/sha256"
	"embed"
	"encoding/base64"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
)

//go:embed views
var viewsFS embed.FS

//go:embed static
var staticFS embed.FS

func newViewEngine() (*html.Engine, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("timestamp", func(t time.Time) string {
		return t.UTC().Format("02 January 2006")
	})
	engine.AddFunc("isoTime", func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	})
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}
	return engine, nil
}

func staticHandler() fiber.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return filesystem.New(filesystem.Config{
		Root:   http.FS(sub),
		MaxAge: 3600,
	})
}

// cookieKey derives the AES-256 key encryptcookie expects from the session secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func newSessionID() string {
	return uuid.NewString()
}
