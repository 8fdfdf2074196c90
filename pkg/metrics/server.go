package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const landingPage = `<html><body>
<h1>Paper Archive Metrics</h1>
<p><a href="/metrics">/metrics</a></p>
</body></html>`

// StartServer exposes the Prometheus scrape endpoint on its own port, apart
// from the API listener, and returns a function that shuts the server down.
func StartServer(port int) func(context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", Handler())
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, landingPage)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("metrics server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	return srv.Shutdown
}
