// Package session orchestrates the user-visible submission lifecycle.
//
// A Machine owns the working file set and the single SessionState instance.
// Transitions are linear: Idle -> Validating -> Submitting -> AwaitingReport
// -> Succeeded | Failed, with Reset returning to Idle from anywhere. At most
// one submission cycle is in flight at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"

	"github.com/creditdesk/eligibility-intake/internal/domain"
	"github.com/creditdesk/eligibility-intake/internal/intake"
	"github.com/creditdesk/eligibility-intake/internal/observability"
	"github.com/creditdesk/eligibility-intake/internal/transport"
)

// Phase is the tag of the session state variant.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseValidating     Phase = "validating"
	PhaseSubmitting     Phase = "submitting"
	PhaseAwaitingReport Phase = "awaiting_report"
	PhaseSucceeded      Phase = "succeeded"
	PhaseFailed         Phase = "failed"
)

// Progress messages shown while a submission is in flight. Cosmetic only;
// nothing branches on them.
const (
	progressOCR     = "Extracting text from PDF documents. OCR can take a little while."
	progressGeneric = "Processing documents."
)

// State is the session snapshot. Result and Report are populated only in
// PhaseSucceeded; Message carries the failure or local-validation text.
type State struct {
	Phase    Phase
	Progress string
	Result   *domain.UploadResult
	Report   *domain.Report
	Message  string
}

// Machine drives one submission/fetch cycle at a time against a ReportClient.
type Machine struct {
	client domain.ReportClient
	ep     transport.Endpoint
	origin string

	probeMaxElapsed time.Duration

	mu      sync.Mutex
	files   intake.Set
	state   State
	cycle   string // ULID of the in-flight cycle; empty when none
	entropy *ulid.MonotonicEntropy
}

// New builds an idle Machine. The endpoint and origin feed network-failure
// diagnostics; they mirror what the client resolved at startup.
func New(client domain.ReportClient, ep transport.Endpoint, origin string, probeMaxElapsed time.Duration) *Machine {
	return &Machine{
		client:          client,
		ep:              ep,
		origin:          origin,
		probeMaxElapsed: probeMaxElapsed,
		files:           intake.NewSet(),
		state:           State{Phase: PhaseIdle},
		entropy:         ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0), //nolint:gosec // ULID entropy does not need to be cryptographic.
	}
}

// AddFiles merges documents into the working set. Disallowed extensions are
// dropped silently by the intake layer.
func (m *Machine) AddFiles(docs ...domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = intake.Add(m.files, docs)
}

// RemoveFile drops a staged document by name.
func (m *Machine) RemoveFile(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = intake.Remove(m.files, name)
}

// Files returns a snapshot of the staged documents.
func (m *Machine) Files() []domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files.Documents()
}

// State returns the current session snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset clears the working set and returns to Idle. Any outstanding cycle is
// invalidated: its eventual result no longer matches the cycle token and is
// discarded instead of overwriting the fresh state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = intake.NewSet()
	m.state = State{Phase: PhaseIdle}
	m.cycle = ""
}

// ProbeBackend checks connectivity with bounded exponential backoff. The
// outcome feeds an informational indicator only and never gates Submit.
func (m *Machine) ProbeBackend(ctx context.Context) bool {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = m.probeMaxElapsed
	err := backoff.Retry(func() error {
		return m.client.Probe(ctx)
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		slog.Warn("backend probe failed", slog.Any("error", err))
		return false
	}
	return true
}

// Submit runs one full cycle: validate, upload, fetch. It blocks until the
// cycle settles and returns the resulting state. Submitting with an empty
// working set or while another cycle is outstanding fails the precondition
// check locally; no network call is issued and no transition happens.
func (m *Machine) Submit(ctx context.Context, meta domain.Metadata) State {
	m.mu.Lock()
	if m.cycle != "" {
		m.state.Message = "a submission is already in progress"
		st := m.state
		m.mu.Unlock()
		return st
	}
	if m.files.Len() == 0 {
		// Rejected preconditions leave the prior state intact apart from the
		// inline message; a terminal Succeeded or Failed snapshot survives.
		m.state.Message = "add at least one document before submitting"
		st := m.state
		m.mu.Unlock()
		return st
	}
	m.state = State{Phase: PhaseValidating}
	token := ulid.MustNew(ulid.Timestamp(time.Now()), m.entropy).String()
	m.cycle = token
	docs := m.files.Documents()
	progress := progressGeneric
	if m.files.HasPDF() {
		progress = progressOCR
	}
	m.state = State{Phase: PhaseSubmitting, Progress: progress}
	m.mu.Unlock()

	slog.Info("submitting batch", slog.String("cycle", token), slog.Int("files", len(docs)))
	res, err := m.client.Submit(ctx, docs, meta)
	if err != nil {
		return m.fail(token, transport.PathUpload, err)
	}

	m.transition(token, State{Phase: PhaseAwaitingReport, Progress: progress, Result: &res})

	rep, err := m.client.FetchReport(ctx, res.ReportID)
	if err != nil {
		return m.fail(token, transport.ReportPath(res.ReportID), err)
	}
	return m.succeed(token, res, rep)
}

// transition applies a mid-cycle state change unless the cycle was superseded
// by a Reset in the meantime.
func (m *Machine) transition(token string, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cycle != token {
		return
	}
	m.state = st
}

// fail settles the cycle in PhaseFailed with the finalized user-visible text.
// Network-level errors are replaced by the reconstructed-URL diagnostic; all
// other taxa keep the typed error's rendering.
func (m *Machine) fail(token, path string, err error) State {
	msg := finalizeMessage(err, m.ep.Base, path, m.origin)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cycle != token {
		slog.Info("discarding result of superseded cycle", slog.String("cycle", token))
		return m.state
	}
	slog.Error("submission cycle failed",
		slog.String("cycle", token),
		slog.String("path", path),
		slog.Any("error", err))
	m.cycle = ""
	m.state = State{Phase: PhaseFailed, Message: msg}
	observability.RecordCycle("failed")
	return m.state
}

// succeed settles the cycle in PhaseSucceeded unless superseded.
func (m *Machine) succeed(token string, res domain.UploadResult, rep domain.Report) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cycle != token {
		slog.Info("discarding result of superseded cycle", slog.String("cycle", token))
		return m.state
	}
	m.cycle = ""
	m.state = State{Phase: PhaseSucceeded, Result: &res, Report: &rep}
	observability.RecordCycle("succeeded")
	return m.state
}

// finalizeMessage is the single place typed errors become user-visible text.
func finalizeMessage(err error, base, path, origin string) string {
	switch {
	case errors.Is(err, domain.ErrNetwork):
		return transport.DescribeFailure(base, path, origin)
	case errors.Is(err, domain.ErrRemote),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMalformedPayload):
		return err.Error()
	default:
		return fmt.Sprintf("unexpected error: %v", err)
	}
}
