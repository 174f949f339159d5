package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"
)

func TestCategorizeTyped(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"cancelled", fmt.Errorf("post: %w", context.Canceled), msgCancelled},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), msgTimeout},
		{
			"refused",
			&net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			msgRefused,
		},
		{
			"reset",
			&net.OpError{Op: "read", Net: "tcp", Err: os.NewSyscallError("read", syscall.ECONNRESET)},
			msgReset,
		},
		{"dns", &net.DNSError{Err: "no such host", Name: "gateway.invalid", IsNotFound: true}, msgDNS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.want {
				t.Errorf("Categorize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategorizeMessage(t *testing.T) {
	tests := []struct {
		errStr string
		want   string
	}{
		{"dial tcp: lookup nonexistent.example.com: no such host", msgDNS},
		{"dial tcp 127.0.0.1:9999: connect: connection refused", msgRefused},
		{"dial tcp: network is unreachable", msgUnreachable},
		{"x509: certificate signed by unknown authority", "TLS certificate signed by unknown authority - set tls.ca_file in the config"},
		{"tls: handshake failure", "TLS handshake failed - check TLS version compatibility"},
		{`Post "http://example.com": stopped after 10 redirects`, "too many redirects - check azure_api_url"},
		{"unsupported protocol scheme", "invalid URL - azure_api_url must start with http:// or https://"},
		{"unexpected EOF", "connection closed unexpectedly by the gateway"},
		{"something odd", "request failed: something odd"},
	}
	for _, tt := range tests {
		if got := Categorize(errors.New(tt.errStr)); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.errStr, got, tt.want)
		}
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	err := newNetworkError(fmt.Errorf("post: %w", context.Canceled))
	if !errors.Is(err, context.Canceled) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if err.Error() != "Network error: request cancelled" {
		t.Errorf("Error() = %q", err.Error())
	}
}
