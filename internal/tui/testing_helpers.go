package tui

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/archibus-connect/internal/config"
	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/gateway"
	"github.com/studiowebux/archibus-connect/internal/history"
	"github.com/studiowebux/archibus-connect/internal/mock"
)

// cmdTimeout bounds a single command in drive
const cmdTimeout = 5 * time.Second

// CreateTestModel creates a Model backed by a temporary history database.
// Pass an empty endpoint to leave the gateway unconfigured.
func CreateTestModel(t *testing.T, endpoint string) *Model {
	t.Helper()

	tempDir := t.TempDir()
	store, err := history.NewManager(filepath.Join(tempDir, "history.db"))
	if err != nil {
		t.Fatalf("Failed to open history: %v", err)
	}

	settings := config.Defaults()
	settings.APIURL = endpoint
	settings.ExportDir = filepath.Join(tempDir, "exports")

	m, err := New(Options{Settings: settings, History: store, Version: "test-version"})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	t.Cleanup(m.Cleanup)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// CreateMockGateway starts the sample mock gateway and returns its endpoint
func CreateMockGateway(t *testing.T) string {
	t.Helper()
	cfg := mock.DefaultConfig()
	cfg.Routes = append(cfg.Routes,
		mock.Route{Method: "POST", Path: "/down", Status: 503},
		mock.Route{Method: "POST", Path: "/text", Body: "accepted"},
	)
	ts := httptest.NewServer(mock.NewServer(cfg, t.TempDir()).Handler())
	t.Cleanup(ts.Close)
	return ts.URL + mock.SamplePath
}

// blockingSender never answers until its context is cancelled
type blockingSender struct {
	started chan struct{}
}

func (s blockingSender) Send(ctx context.Context, payload form.Payload) (*gateway.Response, error) {
	close(s.started)
	<-ctx.Done()
	return nil, &gateway.NetworkError{Summary: gateway.Categorize(ctx.Err()), Err: ctx.Err()}
}

// drive runs cmd and feeds every message it produces back into the model,
// following batches and the commands returned by Update. Spinner ticks are dropped.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := run(t, next)
		switch msg := msg.(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(cmdTimeout):
		t.Fatalf("command did not finish within %s", cmdTimeout)
		return nil
	}
}

// press delivers a key and returns the command Update produced
func press(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+e":
		msg = tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+f":
		msg = tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+g":
		msg = tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+o":
		msg = tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// AssertModelField compares a model field with its expected value
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
