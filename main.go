package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/stevemurr/sustainability-tracker/handler"
	"github.com/stevemurr/sustainability-tracker/store"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// corsMiddleware wraps an http.Handler with CORS headers.
func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	// Fast path: wildcard allows everything.
	allowAll := len(allowedOrigins) == 1 && allowedOrigins[0] == "*"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowAll {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			for _, o := range allowedOrigins {
				if strings.TrimSpace(o) == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
					break
				}
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an id for log
// correlation, minting one when the client did not supply any.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		log.Printf("[%s] %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func newStore(backend, dataDir string) (store.Store, error) {
	if backend == "s3" {
		cfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return store.NewS3Store(env("S3_BUCKET", ""), env("S3_KEY", "actions.json"), cfg)
	}
	return store.New(backend, dataDir)
}

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	host := env("HOST", "0.0.0.0")
	port := env("PORT", "8000")
	dataDir := env("DATA_DIR", "./data")
	backend := env("STORE_BACKEND", "json")
	origins := env("ALLOWED_ORIGINS", "*")

	s, err := newStore(backend, dataDir)
	if err != nil {
		log.Fatalf("failed to create store (backend=%s): %v", backend, err)
	}

	h := handler.New(s)
	wrapped := corsMiddleware(requestIDMiddleware(h), strings.Split(origins, ","))

	addr := fmt.Sprintf("%s:%s", host, port)
	log.Printf("Sustainability Tracker API starting on %s (store=%s, data=%s)", addr, backend, dataDir)
	if err := http.ListenAndServe(addr, wrapped); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
