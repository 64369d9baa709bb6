package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/creditdesk/eligibility-intake/internal/observability"
	"github.com/creditdesk/eligibility-intake/internal/transport"
)

// NewProxy builds the reverse proxy forwarding /api/v1 requests to the
// backend. Paths are forwarded unchanged; the backend mounts the same /api/v1
// prefix. When the backend is unreachable the browser gets a JSON body whose
// detail field carries the reconstructed-URL diagnostic, the same text the
// direct-mode client would have produced.
func NewProxy(backendURL string) (http.Handler, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("op=gateway.NewProxy: parse backend url: %w", err)
	}
	rp := httputil.NewSingleHostReverseProxy(target)
	rp.Transport = otelhttp.NewTransport(http.DefaultTransport)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		observability.ProxyUpstreamErrorsTotal.Inc()
		lg := observability.LoggerFromContext(r.Context())
		lg.Error("proxy upstream error", "path", r.URL.Path, "error", err)
		diag := transport.DescribeFailure(backendURL, r.URL.Path, "")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": diag})
	}
	return rp, nil
}
