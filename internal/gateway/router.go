package gateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creditdesk/eligibility-intake/internal/config"
	"github.com/creditdesk/eligibility-intake/internal/observability"
	"github.com/creditdesk/eligibility-intake/internal/transport"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. An empty input allows everything.
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the gateway handler: proxy, health, metrics, static UI.
func BuildRouter(cfg config.Config, proxy http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer())
	r.Use(RequestID())
	r.Use(TimeoutMiddleware(60 * time.Second))
	r.Use(AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limit the mutating upload route; reads stay unthrottled.
	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
		wr.Use(UploadMetrics)
		wr.Post(transport.ProxyBasePath+"/reports/upload", proxy.ServeHTTP)
	})
	r.Handle(transport.ProxyBasePath+"/*", proxy)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })

	// Everything else is the static UI.
	r.Handle("/*", StaticHandler(cfg.WebDir))

	return SecurityHeaders(r)
}
