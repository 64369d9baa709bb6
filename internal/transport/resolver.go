// Package transport resolves the API endpoint and reconstructs attempted URLs
// when a request dies at the network level.
package transport

import (
	"fmt"
	"net/url"
	"strings"
)

// Mode distinguishes same-origin proxy routing from direct cross-origin calls.
type Mode string

const (
	ModeProxy  Mode = "proxy"
	ModeDirect Mode = "direct"
)

// ProxyBasePath is the fixed relative prefix used in proxy mode. The gateway
// process forwards everything under it to the backend.
const ProxyBasePath = "/api/v1"

// API paths relative to the resolved base.
const (
	PathProbe  = "/test"
	PathUpload = "/reports/upload"
)

// ReportPath returns the retrieval path for a report id.
func ReportPath(id string) string { return "/reports/" + id }

// PDFPath returns the PDF download path for a report id.
func PDFPath(id string) string { return "/reports/" + id + "/pdf" }

// Endpoint is the resolved request base. Immutable for the process lifetime;
// resolve once at startup, not per request.
type Endpoint struct {
	Mode Mode
	Base string
}

// Resolve picks the transport mode from the optional configured base URL.
// Empty means proxy mode against ProxyBasePath; anything else is used verbatim
// as a direct absolute base.
func Resolve(configured string) Endpoint {
	configured = strings.TrimSpace(configured)
	if configured == "" {
		return Endpoint{Mode: ModeProxy, Base: ProxyBasePath}
	}
	return Endpoint{Mode: ModeDirect, Base: configured}
}

// URL joins a request path onto the endpoint base.
func (e Endpoint) URL(path string) string { return Join(e.Base, path) }

// Join concatenates base and path with exactly one slash at the seam,
// regardless of trailing or leading slashes on either side.
func Join(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// isAbsolute reports whether base carries a scheme.
func isAbsolute(base string) bool {
	u, err := url.Parse(base)
	return err == nil && u.Scheme != ""
}

// DescribeFailure reconstructs the effective absolute URL of a request that
// failed before any HTTP response and renders the operator diagnostic. This is
// the only signal an operator gets to tell a proxy-vs-direct misconfiguration
// apart from a dead backend, so the reconstruction must be exact: an absolute
// base is joined with the path directly, a relative base is prefixed with the
// page origin.
func DescribeFailure(base, path, origin string) string {
	attempted := Join(base, path)
	if !isAbsolute(base) {
		attempted = strings.TrimRight(origin, "/") + attempted
	}
	return fmt.Sprintf("could not reach %s: check that the backend process is listening, and that this is the URL you intended", attempted)
}
