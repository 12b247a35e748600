package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ewa-cli/internal/compare"
	"github.com/sells-group/ewa-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve extracted traffic lights over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		mux := newServeMux(st)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newServeMux(st store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/summary", func(w http.ResponseWriter, r *http.Request) {
		records, err := st.ListSummary(r.Context(), filterFromQuery(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	mux.HandleFunc("GET /api/detail", func(w http.ResponseWriter, r *http.Request) {
		records, err := st.ListDetail(r.Context(), filterFromQuery(r))
		if err != nil {
			writeError(w, err)
			return
		}
		// Display cleanup only; stored rows keep the raw section text.
		for i := range records {
			records[i].Section = compare.CleanSection(records[i].Section)
		}
		writeJSON(w, http.StatusOK, records)
	})

	mux.HandleFunc("GET /api/compare", func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			http.Error(w, `{"error":"from and to are required"}`, http.StatusBadRequest)
			return
		}

		old, err := st.ListSummary(r.Context(), store.Filter{Date: from})
		if err != nil {
			writeError(w, err)
			return
		}
		cur, err := st.ListSummary(r.Context(), store.Filter{Date: to})
		if err != nil {
			writeError(w, err)
			return
		}

		deltas := compare.Diff(old, cur)
		score, level := compare.RiskScore(deltas)
		writeJSON(w, http.StatusOK, map[string]any{
			"from":       from,
			"to":         to,
			"deltas":     deltas,
			"risk_score": score,
			"risk_level": level,
		})
	})

	return mux
}

func filterFromQuery(r *http.Request) store.Filter {
	f := store.Filter{
		System: r.URL.Query().Get("system"),
		Date:   r.URL.Query().Get("date"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			f.Limit = n
		}
	}
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	zap.L().Error("request failed", zap.Error(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
