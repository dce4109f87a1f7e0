package devtools

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerOptions configures NewServer.
type ServerOptions struct {
	// Tree returns the current component trees. It is called from HTTP
	// handlers and must hand the snapshot off to the runtime's thread.
	Tree func() ([]Node, error)

	// Gatherer serves /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// NewServer returns the inspector's HTTP handler:
//
//	GET /healthz     liveness
//	GET /components  component trees as JSON
//	GET /timeline    recorded events as JSON
//	GET /ws          live event stream
//	GET /metrics     prometheus metrics
func NewServer(hub *Hub, opts ServerOptions) http.Handler {
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/components", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Tree == nil {
			writeJSON(w, http.StatusOK, []Node{})
			return
		}
		nodes, err := opts.Tree()
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, nodes)
	})

	r.Get("/timeline", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, hub.Timeline())
	})

	r.Get("/ws", hub.HandleWebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
