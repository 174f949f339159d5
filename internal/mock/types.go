package mock

import "time"

// Config represents the mock gateway configuration
type Config struct {
	Port    int     `json:"port" yaml:"port"`       // Server port (default: 8080)
	Host    string  `json:"host" yaml:"host"`       // Server host (default: localhost)
	Routes  []Route `json:"routes" yaml:"routes"`   // Route definitions
	Logging bool    `json:"logging" yaml:"logging"` // Keep a request log
}

// Route represents a mock route configuration
type Route struct {
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Method      string            `json:"method" yaml:"method"`
	Path        string            `json:"path" yaml:"path"`
	PathType    string            `json:"pathType,omitempty" yaml:"pathType,omitempty"` // exact, prefix, regex (default: exact)
	Status      int               `json:"status" yaml:"status"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        string            `json:"body,omitempty" yaml:"body,omitempty"`
	BodyFile    string            `json:"bodyFile,omitempty" yaml:"bodyFile,omitempty"`
	Delay       int               `json:"delay,omitempty" yaml:"delay,omitempty"` // milliseconds
	Sample      bool              `json:"sample,omitempty" yaml:"sample,omitempty"` // answer from the built-in building dataset
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// label names the route in logs and metrics
func (r Route) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Method + " " + r.Path
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp   time.Time         `json:"timestamp"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`
	MatchedRule string            `json:"matchedRule"`
	Status      int               `json:"status"`
	Duration    time.Duration     `json:"duration"`
}
