package source

import (
	"errors"
	"net/http"
	"testing"

	"github.com/citegraph/citegraph/pkg/httputil"
)

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		sentinel  error
		retryable bool
	}{
		{"ok", http.StatusOK, nil, false},
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited, true},
		{"server error", http.StatusInternalServerError, ErrNetwork, true},
		{"bad gateway", http.StatusBadGateway, ErrNetwork, true},
		{"client error", http.StatusBadRequest, ErrNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.code)
			if tt.sentinel == nil {
				if err != nil {
					t.Fatalf("checkStatus(%d) = %v, want nil", tt.code, err)
				}
				return
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("checkStatus(%d) = %v, want %v", tt.code, err, tt.sentinel)
			}
			if got := httputil.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}
