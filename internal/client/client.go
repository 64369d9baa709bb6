// Package client implements the HTTP report client.
//
// It speaks the Eligibility Report API contract (upload, retrieval, liveness,
// PDF download) and normalizes every transport failure into the domain error
// taxonomy. Raw *url.Error values never cross the package boundary.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/creditdesk/eligibility-intake/internal/config"
	"github.com/creditdesk/eligibility-intake/internal/domain"
	"github.com/creditdesk/eligibility-intake/internal/observability"
	"github.com/creditdesk/eligibility-intake/internal/transport"
)

// Client is a domain.ReportClient over HTTP. Construct once per process; the
// endpoint is resolved at startup and immutable afterwards.
type Client struct {
	http *http.Client
	ep   transport.Endpoint
}

// New builds a Client from configuration. Requests share a fixed timeout and
// an otel-instrumented transport; there is no retry logic here.
func New(cfg config.Config) *Client {
	return &Client{
		http: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		ep: transport.Resolve(cfg.APIBaseURL),
	}
}

// Endpoint exposes the resolved endpoint for diagnostics.
func (c *Client) Endpoint() transport.Endpoint { return c.ep }

// Probe checks backend liveness via the test endpoint.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ep.URL(transport.PathProbe), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnknown, err)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return checkStatus(resp, "connectivity probe failed")
}

// Submit uploads the document batch as multipart form data. The repeated
// "files" part carries each document; user_id and category are written only
// when present. The Content-Type header comes from the multipart writer so
// the boundary is always correct; it is never hand-built.
func (c *Client) Submit(ctx context.Context, docs []domain.Document, meta domain.Metadata) (domain.UploadResult, error) {
	var buf bytes.Buffer
	var totalBytes int
	w := multipart.NewWriter(&buf)
	for _, d := range docs {
		totalBytes += len(d.Data)
		fw, err := w.CreateFormFile("files", d.Name)
		if err != nil {
			return domain.UploadResult{}, fmt.Errorf("%w: encode %s: %v", domain.ErrUnknown, d.Name, err)
		}
		if _, err := fw.Write(d.Data); err != nil {
			return domain.UploadResult{}, fmt.Errorf("%w: encode %s: %v", domain.ErrUnknown, d.Name, err)
		}
	}
	if meta.UserID != "" {
		if err := w.WriteField("user_id", meta.UserID); err != nil {
			return domain.UploadResult{}, fmt.Errorf("%w: %v", domain.ErrUnknown, err)
		}
	}
	if meta.Category != "" {
		if err := w.WriteField("category", meta.Category); err != nil {
			return domain.UploadResult{}, fmt.Errorf("%w: %v", domain.ErrUnknown, err)
		}
	}
	if err := w.Close(); err != nil {
		return domain.UploadResult{}, fmt.Errorf("%w: %v", domain.ErrUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ep.URL(transport.PathUpload), &buf)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("%w: %v", domain.ErrUnknown, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Client-Submission-Id", uuid.NewString())

	resp, err := c.do(req)
	if err != nil {
		return domain.UploadResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp, "upload failed"); err != nil {
		return domain.UploadResult{}, err
	}

	var res domain.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return domain.UploadResult{}, fmt.Errorf("%w: upload response: %v", domain.ErrMalformedPayload, err)
	}
	if res.ReportID == "" {
		return domain.UploadResult{}, fmt.Errorf("%w: upload response missing report_id", domain.ErrMalformedPayload)
	}
	observability.UploadBytesTotal.Add(float64(totalBytes))
	slog.Info("batch submitted",
		slog.String("report_id", res.ReportID),
		slog.Int("files", len(docs)))
	return res, nil
}

// FetchReport retrieves the derived report by id.
func (c *Client) FetchReport(ctx context.Context, id string) (domain.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ep.URL(transport.ReportPath(id)), nil)
	if err != nil {
		return domain.Report{}, fmt.Errorf("%w: %v", domain.ErrUnknown, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return domain.Report{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp, "report retrieval failed"); err != nil {
		return domain.Report{}, err
	}

	var rep domain.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		return domain.Report{}, fmt.Errorf("%w: report body: %v", domain.ErrMalformedPayload, err)
	}
	if rep.ReportID == "" {
		return domain.Report{}, fmt.Errorf("%w: report body missing report_id", domain.ErrMalformedPayload)
	}
	return rep, nil
}

// PDFLink builds the direct-download URL for a report's PDF. Pure URL
// construction; no request is issued.
func (c *Client) PDFLink(id string) string {
	return c.ep.URL(transport.PDFPath(id))
}

// DownloadPDF streams the generated PDF into w.
func (c *Client) DownloadPDF(ctx context.Context, id string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PDFLink(id), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnknown, err)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp, "pdf download failed"); err != nil {
		return err
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("%w: pdf stream: %v", domain.ErrUnknown, err)
	}
	return nil
}

// do executes the request and maps transport-level failures (refused, DNS,
// timeout) to ErrNetwork. HTTP error statuses are left to checkStatus.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, req.Method, req.URL.Path, err)
	}
	return resp, nil
}

// errorBody is the backend's error envelope. FastAPI puts the human-readable
// reason in "detail".
type errorBody struct {
	Detail string `json:"detail"`
}

// checkStatus turns non-2xx responses into ErrRemote, preferring the
// body-provided detail message over the generic fallback.
func checkStatus(resp *http.Response, fallback string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		return fmt.Errorf("%w: %s", domain.ErrRemote, eb.Detail)
	}
	return fmt.Errorf("%w: %s: HTTP %d", domain.ErrRemote, fallback, resp.StatusCode)
}
