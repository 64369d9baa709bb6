package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/creditdesk/eligibility-intake/internal/domain"
	"github.com/creditdesk/eligibility-intake/internal/transport"
)

func Test_ProbeFailureMessage(t *testing.T) {
	netErr := fmt.Errorf("%w: GET /test: connection refused", domain.ErrNetwork)
	msg := probeFailureMessage(netErr, transport.ProxyBasePath, "http://localhost:5173")
	assert.Contains(t, msg, "could not reach http://localhost:5173/api/v1/test")

	// HTTP-level failures keep the typed error text instead of the URL diagnostic
	remoteErr := fmt.Errorf("%w: connectivity probe failed: HTTP 500", domain.ErrRemote)
	msg = probeFailureMessage(remoteErr, transport.ProxyBasePath, "http://localhost:5173")
	assert.Equal(t, remoteErr.Error(), msg)
	assert.NotContains(t, msg, "could not reach")
}
