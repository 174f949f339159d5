package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/logging"
)

const defaultUserAgent = "archibus-connect/dev"

// TLSConfig holds optional CA and client certificate settings for the gateway
type TLSConfig struct {
	CAFile             string `json:"ca_file,omitempty" yaml:"ca_file,omitempty"`
	CertFile           string `json:"cert_file,omitempty" yaml:"cert_file,omitempty"`
	KeyFile            string `json:"key_file,omitempty" yaml:"key_file,omitempty"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
}

// Response is what came back from one POST
type Response struct {
	Status       int
	StatusText   string
	Headers      map[string]string
	Body         string
	Duration     time.Duration
	RequestSize  int
	ResponseSize int
}

// Client posts request payloads to the gateway endpoint
type Client struct {
	endpoint   string
	userAgent  string
	timeout    time.Duration
	tls        *TLSConfig
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds each request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTLS configures CA and client certificates
func WithTLS(cfg *TLSConfig) Option {
	return func(c *Client) { c.tls = cfg }
}

// WithHTTPClient replaces the underlying client. TLS options are ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient validates the endpoint and builds a client
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if err := ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}

	c := &Client{endpoint: endpoint, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		hc, err := buildHTTPClient(c.tls)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
		c.httpClient = hc
	}
	return c, nil
}

// ValidateEndpoint checks that the endpoint is an absolute http(s) URL
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("gateway endpoint is not configured (set azure_api_url)")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid gateway endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid gateway endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid gateway endpoint %q: missing host", endpoint)
	}
	return nil
}

// Endpoint returns the configured gateway URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send POSTs the payload as JSON. Transport failures are returned as
// *NetworkError; any HTTP status is a successful exchange.
func (c *Client) Send(ctx context.Context, payload form.Payload) (*Response, error) {
	body, err := payload.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", c.userAgent)

	log := logging.Logger().WithValues("endpoint", c.endpoint)
	log.V(1).Info("sending request", "body", string(body))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		netErr := newNetworkError(err)
		log.Error(err, "request failed", "summary", netErr.Summary)
		return nil, netErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		return nil, newNetworkError(fmt.Errorf("failed to read response body: %w", err))
	}

	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		headers[key] = strings.Join(values, ", ")
	}

	log.Info("response received", "status", resp.StatusCode, "bytes", len(respBody), "duration", duration)

	return &Response{
		Status:       resp.StatusCode,
		StatusText:   statusText(resp),
		Headers:      headers,
		Body:         string(respBody),
		Duration:     duration,
		RequestSize:  len(body),
		ResponseSize: len(respBody),
	}, nil
}

// statusText strips the numeric code from the status line
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	return strings.TrimSpace(text)
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func buildHTTPClient(tlsConfig *TLSConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = pool
		}

		transport.TLSClientConfig = tlsCfg
	}

	// no client timeout: requests are bounded by their context
	return &http.Client{Transport: transport}, nil
}

// FormatDuration formats a duration to a short human-readable string
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", float64(ms)/1000.0)
}

// FormatSize formats byte size to human-readable string
func FormatSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.2fKB", float64(bytes)/1024.0)
	}
	return fmt.Sprintf("%.2fMB", float64(bytes)/(1024.0*1024.0))
}
