package gateway

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"strings"
	"syscall"
)

// NetworkError is a transport failure: the gateway never produced a status
type NetworkError struct {
	// Summary is a short actionable description of the failure
	Summary string
	Err     error
}

func (e *NetworkError) Error() string {
	return "Network error: " + e.Summary
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Cancelled reports whether the request was cancelled by the user
func (e *NetworkError) Cancelled() bool {
	return errors.Is(e.Err, context.Canceled)
}

func newNetworkError(err error) *NetworkError {
	return &NetworkError{Summary: Categorize(err), Err: err}
}

const (
	msgCancelled   = "request cancelled"
	msgTimeout     = "request timed out - the gateway took too long to respond, check azure_api_url or raise timeout"
	msgRefused     = "connection refused - check that the gateway is running and the port in azure_api_url is correct"
	msgReset       = "connection reset by the gateway"
	msgUnreachable = "network unreachable - check the network connection and firewall settings"
	msgDNS         = "DNS resolution failed - verify the host in azure_api_url"
)

// Categorize turns a transport error into a user-facing summary
func Categorize(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return msgRefused
	case errors.Is(err, syscall.ECONNRESET):
		return msgReset
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return msgUnreachable
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return msgDNS
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return "TLS certificate signed by unknown authority - set tls.ca_file in the config"
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return "TLS hostname mismatch - certificate doesn't match the gateway host"
	}
	var invalidCert x509.CertificateInvalidError
	if errors.As(err, &invalidCert) {
		return "TLS certificate is invalid: " + invalidCert.Error()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return msgTimeout
	}

	return categorizeMessage(err.Error())
}

// categorizeMessage matches on the error text when no typed error is available
func categorizeMessage(errStr string) string {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "context canceled"):
		return msgCancelled
	case strings.Contains(errLower, "deadline exceeded"),
		strings.Contains(errLower, "timeout"),
		strings.Contains(errLower, "timed out"):
		return msgTimeout
	case strings.Contains(errLower, "proxy"):
		return "proxy connection failed - check HTTP_PROXY and HTTPS_PROXY"
	case strings.Contains(errLower, "no such host"),
		strings.Contains(errLower, "dial tcp: lookup"):
		return msgDNS
	case strings.Contains(errLower, "connection refused"):
		return msgRefused
	case strings.Contains(errLower, "connection reset"):
		return msgReset
	case strings.Contains(errLower, "network is unreachable"),
		strings.Contains(errLower, "no route to host"):
		return msgUnreachable
	case strings.Contains(errLower, "x509"),
		strings.Contains(errLower, "certificate"),
		strings.Contains(errLower, "tls"):
		return categorizeTLSMessage(errLower, errStr)
	case strings.Contains(errLower, "stopped after") && strings.Contains(errLower, "redirect"):
		return "too many redirects - check azure_api_url"
	case strings.Contains(errLower, "unsupported protocol"):
		return "invalid URL - azure_api_url must start with http:// or https://"
	case strings.Contains(errLower, "eof"):
		return "connection closed unexpectedly by the gateway"
	}

	return "request failed: " + errStr
}

func categorizeTLSMessage(errLower, errStr string) string {
	switch {
	case strings.Contains(errLower, "unknown authority"):
		return "TLS certificate signed by unknown authority - set tls.ca_file in the config"
	case strings.Contains(errLower, "expired"):
		return "TLS certificate has expired"
	case strings.Contains(errLower, "certificate is valid for"):
		return "TLS hostname mismatch - certificate doesn't match the gateway host"
	case strings.Contains(errLower, "handshake"):
		return "TLS handshake failed - check TLS version compatibility"
	case strings.Contains(errLower, "certificate required"):
		return "TLS client certificate required - set tls.cert_file and tls.key_file in the config"
	}
	return "TLS error: " + errStr
}
