package mock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studiowebux/archibus-connect/internal/logging"
)

// maxLogs is the number of requests kept in memory
const maxLogs = 1000

// Server represents the mock gateway
type Server struct {
	config    *Config
	workdir   string
	logs      []RequestLog
	logsMutex sync.RWMutex
	notifyCh  chan struct{}

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	patterns map[string]*regexp.Regexp
}

// NewServer creates a new mock server
func NewServer(config *Config, workdir string) *Server {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.Host == "" {
		config.Host = "localhost"
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "archibus_mock_requests_total",
		Help: "Requests answered by the mock gateway, by route and status.",
	}, []string{"route", "status"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(requests)

	s := &Server{
		config:   config,
		workdir:  workdir,
		logs:     make([]RequestLog, 0),
		notifyCh: make(chan struct{}, 100),
		registry: registry,
		requests: requests,
		patterns: make(map[string]*regexp.Regexp),
	}

	for _, route := range config.Routes {
		if route.PathType != "regex" {
			continue
		}
		if re, err := regexp.Compile(route.Path); err == nil {
			s.patterns[route.Path] = re
		} else {
			logging.Logger().Error(err, "Invalid route pattern", "route", route.label())
		}
	}

	return s
}

// Handler serves the configured routes and /metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", s.handleRequest)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	logging.Logger().Info("Mock gateway listening", "address", s.Address(), "routes", len(s.config.Routes))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mock server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop mock server: %w", err)
	}
	return nil
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	bodyBytes, _ := io.ReadAll(r.Body)
	r.Body.Close()
	requestBody := string(bodyBytes)

	route := s.findMatchingRoute(r.Method, r.URL.Path)

	var status int
	var responseBody string
	var matchedRule string

	if route == nil {
		status = http.StatusNotFound
		responseBody = fmt.Sprintf("Mock server: No route configured for %s %s", r.Method, r.URL.Path)
		matchedRule = "none"
	} else {
		if route.Delay > 0 {
			select {
			case <-time.After(time.Duration(route.Delay) * time.Millisecond):
			case <-r.Context().Done():
			}
		}

		status = route.Status
		if status == 0 {
			status = http.StatusOK
		}

		for key, value := range route.Headers {
			w.Header().Set(key, value)
		}

		switch {
		case route.Sample:
			data, err := SampleResponse(requestBody)
			if err != nil {
				status = http.StatusInternalServerError
				responseBody = fmt.Sprintf("Mock server: Failed to build sample response: %v", err)
			} else {
				responseBody = string(data)
			}
		case route.BodyFile != "":
			filePath := route.BodyFile
			if !filepath.IsAbs(filePath) {
				filePath = filepath.Join(s.workdir, filePath)
			}
			data, err := os.ReadFile(filePath)
			if err != nil {
				status = http.StatusInternalServerError
				responseBody = fmt.Sprintf("Mock server: Failed to read body file %s: %v", route.BodyFile, err)
			} else {
				responseBody = string(data)
			}
		default:
			responseBody = route.Body
		}

		matchedRule = route.label()
	}

	w.WriteHeader(status)
	w.Write([]byte(responseBody))

	duration := time.Since(start)
	s.requests.WithLabelValues(matchedRule, strconv.Itoa(status)).Inc()
	logging.Logger().V(1).Info("Mock request", "method", r.Method, "path", r.URL.Path, "route", matchedRule, "status", status, "duration", duration)

	if s.config.Logging {
		s.logRequest(RequestLog{
			Timestamp:   start,
			Method:      r.Method,
			Path:        r.URL.Path,
			Headers:     flattenHeaders(r.Header),
			Body:        requestBody,
			MatchedRule: matchedRule,
			Status:      status,
			Duration:    duration,
		})
	}
}

// findMatchingRoute finds the first route that matches the method and path
func (s *Server) findMatchingRoute(method, path string) *Route {
	for i := range s.config.Routes {
		route := &s.config.Routes[i]
		if !strings.EqualFold(route.Method, method) {
			continue
		}

		matched := false
		switch route.PathType {
		case "", "exact":
			matched = route.Path == path
		case "prefix":
			matched = strings.HasPrefix(path, route.Path)
		case "regex":
			if re := s.patterns[route.Path]; re != nil {
				matched = re.MatchString(path)
			}
		}

		if matched {
			return route
		}
	}

	return nil
}

func (s *Server) logRequest(entry RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}

	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel receives a value after each logged request
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// GetLogs returns a copy of the logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}

// Address returns the base URL of the server
func (s *Server) Address() string {
	return "http://" + net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// flattenHeaders keeps the first value of each header
func flattenHeaders(headers http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range headers {
		if len(values) > 0 {
			result[key] = values[0]
		}
	}
	return result
}
