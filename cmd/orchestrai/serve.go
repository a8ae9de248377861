package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankithreddys/orchestrai/internal/logutil"
	"github.com/ankithreddys/orchestrai/orchestrator"
)

type turnRequest struct {
	ThreadID string `json:"thread_id"`
	Text     string `json:"text"`
	Provider string `json:"provider,omitempty"`
}

type turnResponse struct {
	ThreadID string `json:"thread_id"`
	Reply    string `json:"reply"`
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as a local daemon that accepts turns over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			bind := strings.TrimSpace(flagOrViperString(cmd, "server-bind", "server.bind"))
			if bind == "" {
				bind = "127.0.0.1"
			}
			port := flagOrViperInt(cmd, "server-port", "server.port")
			if port <= 0 {
				port = 8790
			}
			auth := flagOrViperString(cmd, "server-auth-token", "server.auth_token")
			if strings.TrimSpace(auth) == "" {
				return fmt.Errorf("missing server.auth_token (set via --server-auth-token or %s_SERVER_AUTH_TOKEN)", envPrefix)
			}

			logger, err := logutil.FromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			orch, err := orchestratorFromViper(logger)
			if err != nil {
				return err
			}

			turnTimeout := viper.GetDuration("timeout")

			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"ok":   true,
					"time": time.Now().Format(time.RFC3339Nano),
				})
			})
			mux.HandleFunc("/v1/turn", func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
					return
				}
				if !checkAuth(r, auth) {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				var req turnRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					http.Error(w, "invalid json", http.StatusBadRequest)
					return
				}
				req.Text = strings.TrimSpace(req.Text)
				if req.Text == "" {
					http.Error(w, "missing text", http.StatusBadRequest)
					return
				}
				threadID := strings.TrimSpace(req.ThreadID)
				if threadID == "" {
					threadID = uuid.NewString()
				}

				ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
				defer cancel()

				reply, err := orch.HandleTurnOptions(ctx, threadID, req.Text, orchestrator.TurnOptions{Provider: req.Provider})
				if err != nil {
					if errors.Is(err, orchestrator.ErrUnknownProvider) {
						http.Error(w, "unknown provider", http.StatusBadRequest)
						return
					}
					logger.Error("turn failed", "thread", threadID, "error", err)
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(turnResponse{ThreadID: threadID, Reply: reply})
			})

			addr := bind + ":" + strconv.Itoa(port)
			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			logger.Info("server_start", "addr", addr)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().String("server-bind", "127.0.0.1", "Bind address (default: 127.0.0.1).")
	cmd.Flags().Int("server-port", 8790, "HTTP port to listen on.")
	cmd.Flags().String("server-auth-token", "", "Bearer token required for all non-/health endpoints.")

	return cmd
}

func checkAuth(r *http.Request, token string) bool {
	got := strings.TrimSpace(r.Header.Get("Authorization"))
	want := "Bearer " + strings.TrimSpace(token)
	if got == "" || want == "Bearer " {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
