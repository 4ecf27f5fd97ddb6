// cmd/worker/startup.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"library-catalog/pkg/container"
)

const healthAddr = ":9999"

// startServices checks dependencies and starts the probe endpoint
func startServices(c *container.Container) error {
	log.Info().Str("service", c.Config.App.Name).Msg("Worker starting")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for name, err := range c.HealthCheck(ctx) {
		if err != nil {
			return fmt.Errorf("%s check failed: %w", name, err)
		}
		log.Info().Str("check", name).Msg("Health check OK")
	}
	if c.Storage == nil {
		log.Warn().Msg("Object storage unavailable, import jobs will retry until it is back")
	}

	go startHealthCheckServer(c)
	return nil
}

func startHealthCheckServer(c *container.Container) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "library-catalog-worker"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, err := range c.HealthCheck(ctx) {
			if err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "NOT_READY", "failing": name})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "READY"})
	})

	log.Info().Str("addr", healthAddr).Msg("[Health] Starting health check server")
	if err := http.ListenAndServe(healthAddr, mux); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
