package tui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/studiowebux/archibus-connect/internal/history"
)

// HistoryState encapsulates all history-related UI state
type HistoryState struct {
	mu sync.RWMutex

	entries []history.Entry
	index   int

	// Viewport for preview pane
	previewView    viewport.Model
	previewVisible bool
}

// NewHistoryState creates a new history state
func NewHistoryState() *HistoryState {
	return &HistoryState{
		previewView:    viewport.New(80, 20),
		previewVisible: true,
	}
}

// GetEntries returns a copy of the entries slice
func (s *HistoryState) GetEntries() []history.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]history.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// SetEntries replaces the entries and selects the first one
func (s *HistoryState) SetEntries(entries []history.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.index = 0
	s.updatePreview()
}

// Len returns the number of entries
func (s *HistoryState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetIndex returns the current index
func (s *HistoryState) GetIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Navigate moves the selection by delta, wrapping around
func (s *HistoryState) Navigate(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return
	}

	s.index += delta
	if s.index < 0 {
		s.index = len(s.entries) - 1
	} else if s.index >= len(s.entries) {
		s.index = 0
	}
	s.updatePreview()
}

// GetCurrentEntry returns a copy of the selected entry, or nil
func (s *HistoryState) GetCurrentEntry() *history.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 || s.index < 0 || s.index >= len(s.entries) {
		return nil
	}
	e := s.entries[s.index]
	return &e
}

// RemoveCurrent drops the selected entry after it was deleted from the store
func (s *HistoryState) RemoveCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index < 0 || s.index >= len(s.entries) {
		return
	}
	s.entries = append(s.entries[:s.index:s.index], s.entries[s.index+1:]...)
	if s.index >= len(s.entries) && s.index > 0 {
		s.index--
	}
	s.updatePreview()
}

// GetPreviewVisible reports whether the preview pane is shown
func (s *HistoryState) GetPreviewVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previewVisible
}

// TogglePreview shows or hides the preview pane
func (s *HistoryState) TogglePreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewVisible = !s.previewVisible
}

// GetPreviewView returns a copy of the preview viewport
func (s *HistoryState) GetPreviewView() viewport.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previewView
}

// SetPreviewSize resizes the preview viewport
func (s *HistoryState) SetPreviewSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width < 10 {
		width = 10
	}
	if height < 1 {
		height = 1
	}
	s.previewView.Width = width
	s.previewView.Height = height
}

// ScrollPreview scrolls the preview pane by n lines
func (s *HistoryState) ScrollPreview(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.previewVisible {
		return
	}
	offset := s.previewView.YOffset + n
	if offset < 0 {
		offset = 0
	}
	s.previewView.SetYOffset(offset)
}

// updatePreview must be called with the lock held
func (s *HistoryState) updatePreview() {
	if len(s.entries) == 0 || s.index >= len(s.entries) {
		s.previewView.SetContent("")
		return
	}
	s.previewView.SetContent(previewText(s.entries[s.index]))
	s.previewView.GotoTop()
}

// previewText shows the form values and what the entry would restore
func previewText(e history.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Endpoint: %s\n", e.Endpoint)
	if e.Status != 0 {
		fmt.Fprintf(&b, "Status:   %d %s\n", e.Status, e.StatusText)
	}
	fmt.Fprintf(&b, "Duration: %s\n\n", e.Duration)

	names := make([]string, 0, len(e.Form))
	for name := range e.Form {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString("Form\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s\n", name, e.Form[name])
	}

	r := e.Result()
	b.WriteString("\nResult\n")
	switch {
	case r.IsEmpty():
		b.WriteString("  (empty)\n")
	case r.IsTable():
		b.WriteString("  " + r.Display() + "\n")
	default:
		b.WriteString(r.Text() + "\n")
	}
	return b.String()
}
