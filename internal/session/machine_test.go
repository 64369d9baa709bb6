package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditdesk/eligibility-intake/internal/domain"
	"github.com/creditdesk/eligibility-intake/internal/render"
	"github.com/creditdesk/eligibility-intake/internal/transport"
)

// fakeClient implements domain.ReportClient with pluggable behavior.
type fakeClient struct {
	probeErr error
	submitFn func(ctx context.Context, docs []domain.Document, meta domain.Metadata) (domain.UploadResult, error)
	fetchFn  func(ctx context.Context, id string) (domain.Report, error)
	submits  atomic.Int32
	fetches  atomic.Int32
}

func (f *fakeClient) Probe(context.Context) error { return f.probeErr }

func (f *fakeClient) Submit(ctx context.Context, docs []domain.Document, meta domain.Metadata) (domain.UploadResult, error) {
	f.submits.Add(1)
	return f.submitFn(ctx, docs, meta)
}

func (f *fakeClient) FetchReport(ctx context.Context, id string) (domain.Report, error) {
	f.fetches.Add(1)
	return f.fetchFn(ctx, id)
}

func (f *fakeClient) PDFLink(id string) string { return "/api/v1/reports/" + id + "/pdf" }

func proxyEndpoint() transport.Endpoint { return transport.Resolve("") }

func pdfDoc(name string) domain.Document {
	return domain.Document{Name: name, Ext: "pdf", Data: []byte("%PDF")}
}

func pngDoc(name string) domain.Document {
	return domain.Document{Name: name, Ext: "png", Data: []byte("png")}
}

func Test_Submit_FullCycleSucceeds(t *testing.T) {
	report := domain.Report{
		ReportID:    "r1",
		Eligibility: true,
		Decisions: []domain.RuleDecision{
			{RuleID: "R1", RuleName: "Credit Score", Passed: true, Message: "credit_score=742 >= 650"},
		},
	}
	fc := &fakeClient{
		submitFn: func(_ context.Context, docs []domain.Document, meta domain.Metadata) (domain.UploadResult, error) {
			require.Len(t, docs, 1)
			require.Equal(t, "id.pdf", docs[0].Name)
			require.Equal(t, "emp_1001", meta.UserID)
			require.Equal(t, "personal_loan", meta.Category)
			return domain.UploadResult{ReportID: "r1"}, nil
		},
		fetchFn: func(_ context.Context, id string) (domain.Report, error) {
			require.Equal(t, "r1", id)
			return report, nil
		},
	}
	m := New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pdfDoc("id.pdf"))

	st := m.Submit(context.Background(), domain.Metadata{UserID: "emp_1001", Category: "personal_loan"})
	require.Equal(t, PhaseSucceeded, st.Phase)
	require.NotNil(t, st.Result)
	assert.Equal(t, "r1", st.Result.ReportID)
	require.NotNil(t, st.Report)

	// exactly one pass-labeled decision row comes out of the mapper
	rows := render.Decisions(*st.Report)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Label, "PASS")
}

func Test_Submit_NetworkFailureCarriesReconstructedURL(t *testing.T) {
	fc := &fakeClient{
		submitFn: func(context.Context, []domain.Document, domain.Metadata) (domain.UploadResult, error) {
			return domain.UploadResult{}, fmt.Errorf("%w: POST /reports/upload: connection refused", domain.ErrNetwork)
		},
	}
	m := New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pdfDoc("id.pdf"))

	st := m.Submit(context.Background(), domain.Metadata{})
	require.Equal(t, PhaseFailed, st.Phase)
	assert.Contains(t, st.Message, "http://localhost:5173/api/v1/reports/upload")
	assert.Equal(t, int32(0), fc.fetches.Load())
}

func Test_Submit_RemoteFailureKeepsDetail(t *testing.T) {
	fc := &fakeClient{
		submitFn: func(context.Context, []domain.Document, domain.Metadata) (domain.UploadResult, error) {
			return domain.UploadResult{}, fmt.Errorf("%w: Document quality is low. Please upload a clearer scan.", domain.ErrRemote)
		},
	}
	m := New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pngDoc("scan.png"))

	st := m.Submit(context.Background(), domain.Metadata{})
	require.Equal(t, PhaseFailed, st.Phase)
	assert.Contains(t, st.Message, "Document quality is low")
}

func Test_Submit_FetchFailureUsesReportPath(t *testing.T) {
	fc := &fakeClient{
		submitFn: func(context.Context, []domain.Document, domain.Metadata) (domain.UploadResult, error) {
			return domain.UploadResult{ReportID: "r9"}, nil
		},
		fetchFn: func(context.Context, string) (domain.Report, error) {
			return domain.Report{}, fmt.Errorf("%w: GET /reports/r9: timeout", domain.ErrNetwork)
		},
	}
	m := New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pdfDoc("id.pdf"))

	st := m.Submit(context.Background(), domain.Metadata{})
	require.Equal(t, PhaseFailed, st.Phase)
	assert.Contains(t, st.Message, "http://localhost:5173/api/v1/reports/r9")
}

func Test_Submit_EmptySetNeverIssuesNetworkCall(t *testing.T) {
	fc := &fakeClient{
		submitFn: func(context.Context, []domain.Document, domain.Metadata) (domain.UploadResult, error) {
			return domain.UploadResult{}, errors.New("must not be called")
		},
	}
	m := New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)

	st := m.Submit(context.Background(), domain.Metadata{})
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Contains(t, st.Message, "at least one document")
	assert.Equal(t, int32(0), fc.submits.Load())
}

func Test_Submit_EmptyRejectionPreservesTerminalState(t *testing.T) {
	fc := &fakeClient{
		submitFn: func(context.Context, []domain.Document, domain.Metadata) (domain.UploadResult, error) {
			return domain.UploadResult{ReportID: "r1"}, nil
		},
		fetchFn: func(context.Context, string) (domain.Report, error) {
			return domain.Report{ReportID: "r1", Eligibility: true}, nil
		},
	}
	m := New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pdfDoc("id.pdf"))
	st := m.Submit(context.Background(), domain.Metadata{})
	require.Equal(t, PhaseSucceeded, st.Phase)

	// rejecting an empty re-submit must not discard the fetched report
	m.RemoveFile("id.pdf")
	st = m.Submit(context.Background(), domain.Metadata{})
	assert.Equal(t, PhaseSucceeded, st.Phase)
	require.NotNil(t, st.Report)
	assert.Equal(t, "r1", st.Report.ReportID)
	assert.Contains(t, st.Message, "at least one document")
	assert.Equal(t, int32(1), fc.submits.Load())
}

func Test_Submit_ProgressMessageDependsOnPDFPresence(t *testing.T) {
	var sawProgress string
	var m *Machine
	fc := &fakeClient{
		fetchFn: func(context.Context, string) (domain.Report, error) {
			return domain.Report{ReportID: "r1"}, nil
		},
	}
	fc.submitFn = func(context.Context, []domain.Document, domain.Metadata) (domain.UploadResult, error) {
		sawProgress = m.State().Progress
		return domain.UploadResult{ReportID: "r1"}, nil
	}

	m = New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pdfDoc("id.pdf"), pngDoc("photo.png"))
	_ = m.Submit(context.Background(), domain.Metadata{})
	assert.Contains(t, sawProgress, "OCR")

	m = New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pngDoc("photo.png"))
	_ = m.Submit(context.Background(), domain.Metadata{})
	assert.NotContains(t, sawProgress, "OCR")
}

func Test_Submit_RejectedWhileCycleInFlight(t *testing.T) {
	release := make(chan struct{})
	var m *Machine
	fc := &fakeClient{
		fetchFn: func(context.Context, string) (domain.Report, error) {
			return domain.Report{ReportID: "r1"}, nil
		},
	}
	fc.submitFn = func(context.Context, []domain.Document, domain.Metadata) (domain.UploadResult, error) {
		<-release
		return domain.UploadResult{ReportID: "r1"}, nil
	}

	m = New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pdfDoc("id.pdf"))

	done := make(chan State, 1)
	go func() { done <- m.Submit(context.Background(), domain.Metadata{}) }()

	// wait for the first cycle to reach Submitting
	require.Eventually(t, func() bool {
		return m.State().Phase == PhaseSubmitting
	}, time.Second, 5*time.Millisecond)

	st := m.Submit(context.Background(), domain.Metadata{})
	assert.Contains(t, st.Message, "already in progress")
	assert.Equal(t, int32(1), fc.submits.Load())

	close(release)
	final := <-done
	assert.Equal(t, PhaseSucceeded, final.Phase)
}

func Test_Reset_DiscardsLateResultOfSupersededCycle(t *testing.T) {
	release := make(chan struct{})
	fc := &fakeClient{
		submitFn: func(context.Context, []domain.Document, domain.Metadata) (domain.UploadResult, error) {
			<-release
			return domain.UploadResult{ReportID: "stale"}, nil
		},
		fetchFn: func(context.Context, string) (domain.Report, error) {
			return domain.Report{ReportID: "stale"}, nil
		},
	}
	m := New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pdfDoc("id.pdf"))

	done := make(chan State, 1)
	go func() { done <- m.Submit(context.Background(), domain.Metadata{}) }()
	require.Eventually(t, func() bool {
		return m.State().Phase == PhaseSubmitting
	}, time.Second, 5*time.Millisecond)

	m.Reset()
	close(release)
	<-done

	// the late result must not overwrite the fresh Idle state
	st := m.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Nil(t, st.Report)
	assert.Empty(t, m.Files())
}

func Test_Reset_ClearsFilesAndState(t *testing.T) {
	fc := &fakeClient{
		submitFn: func(context.Context, []domain.Document, domain.Metadata) (domain.UploadResult, error) {
			return domain.UploadResult{}, fmt.Errorf("%w: boom", domain.ErrRemote)
		},
	}
	m := New(fc, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	m.AddFiles(pdfDoc("id.pdf"))
	st := m.Submit(context.Background(), domain.Metadata{})
	require.Equal(t, PhaseFailed, st.Phase)

	m.Reset()
	assert.Equal(t, PhaseIdle, m.State().Phase)
	assert.Empty(t, m.Files())

	// a fresh cycle is accepted after reset
	m.AddFiles(pdfDoc("id.pdf"))
	st = m.Submit(context.Background(), domain.Metadata{})
	assert.Equal(t, PhaseFailed, st.Phase)
}

func Test_ProbeBackend(t *testing.T) {
	ok := &fakeClient{}
	m := New(ok, proxyEndpoint(), "http://localhost:5173", 100*time.Millisecond)
	assert.True(t, m.ProbeBackend(context.Background()))

	down := &fakeClient{probeErr: fmt.Errorf("%w: refused", domain.ErrNetwork)}
	m = New(down, proxyEndpoint(), "http://localhost:5173", 50*time.Millisecond)
	assert.False(t, m.ProbeBackend(context.Background()))
}
