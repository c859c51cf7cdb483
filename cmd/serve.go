package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/al-mudeer/inbox-agent/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the message processing webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env, cfg.Server.AllowedOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// snapshotter is implemented by recorders that can report today's
// counters (the SQLite recorder; the noop recorder cannot).
type snapshotter interface {
	Snapshot(ctx context.Context, licenseID int64) (map[string]int64, error)
}

// newRouter builds the HTTP surface: process webhook, health, stats.
func newRouter(env *pipelineEnv, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		status := map[string]any{"status": "ok"}
		if env.Gateway != nil {
			stats := env.Gateway.Stats()
			status["providers"] = stats.Breakers
			for _, state := range stats.Breakers {
				if state == "open" {
					status["status"] = "degraded"
				}
			}
		}
		writeJSON(w, http.StatusOK, status)
	})

	r.Post("/v1/process", func(w http.ResponseWriter, req *http.Request) {
		var body model.ProcessRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.Message == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
			return
		}

		result := env.Orchestrator.Process(req.Context(), body)

		code := http.StatusOK
		if !result.Success {
			code = http.StatusInternalServerError
		}
		writeJSON(w, code, result)
	})

	r.Get("/v1/stats", func(w http.ResponseWriter, req *http.Request) {
		out := map[string]any{}
		if env.Gateway != nil {
			out["gateway"] = env.Gateway.Stats()
		}

		if raw := req.URL.Query().Get("license_id"); raw != "" {
			licenseID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid license_id"})
				return
			}
			if snap, ok := env.Recorder.(snapshotter); ok {
				counters, err := snap.Snapshot(req.Context(), licenseID)
				if err != nil {
					zap.L().Error("stats: snapshot failed", zap.Error(err))
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analytics unavailable"})
					return
				}
				out["today"] = counters
			}
		}

		writeJSON(w, http.StatusOK, out)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
