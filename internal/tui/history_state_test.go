package tui

import (
	"strings"
	"sync"
	"testing"

	"github.com/studiowebux/archibus-connect/internal/history"
)

func entries(ids ...string) []history.Entry {
	out := make([]history.Entry, len(ids))
	for i, id := range ids {
		out[i] = history.Entry{ID: id, Status: 200, StatusText: "OK", ResultKind: "table", Body: "[]"}
	}
	return out
}

func TestHistoryState_Navigate(t *testing.T) {
	tests := []struct {
		name   string
		moves  []int
		wantID string
	}{
		{"starts at first", nil, "a"},
		{"down", []int{1}, "b"},
		{"wraps from top", []int{-1}, "c"},
		{"wraps from bottom", []int{1, 1, 1}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHistoryState()
			s.SetEntries(entries("a", "b", "c"))
			for _, d := range tt.moves {
				s.Navigate(d)
			}
			if got := s.GetCurrentEntry(); got == nil || got.ID != tt.wantID {
				t.Errorf("current = %v, want %s", got, tt.wantID)
			}
		})
	}
}

func TestHistoryState_Empty(t *testing.T) {
	s := NewHistoryState()

	s.Navigate(1)
	s.RemoveCurrent()

	if s.GetCurrentEntry() != nil {
		t.Error("empty state should have no current entry")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestHistoryState_RemoveCurrent(t *testing.T) {
	tests := []struct {
		name    string
		moves   int
		wantIDs string
		wantCur string
	}{
		{"first", 0, "b,c", "b"},
		{"middle", 1, "a,c", "c"},
		{"last moves selection up", 2, "a,b", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHistoryState()
			original := entries("a", "b", "c")
			s.SetEntries(original)
			s.Navigate(tt.moves)

			s.RemoveCurrent()

			var ids []string
			for _, e := range s.GetEntries() {
				ids = append(ids, e.ID)
			}
			if got := strings.Join(ids, ","); got != tt.wantIDs {
				t.Errorf("entries = %s, want %s", got, tt.wantIDs)
			}
			if cur := s.GetCurrentEntry(); cur == nil || cur.ID != tt.wantCur {
				t.Errorf("current = %v, want %s", cur, tt.wantCur)
			}
			if original[0].ID != "a" || original[1].ID != "b" {
				t.Error("caller slice was modified")
			}
		})
	}
}

func TestHistoryState_Preview(t *testing.T) {
	s := NewHistoryState()
	s.SetPreviewSize(60, 20)
	s.SetEntries([]history.Entry{{
		ID:         "a",
		Endpoint:   "https://gateway.example.com/archibus",
		Form:       map[string]string{"floorId": "02", "buildingId": "ADM"},
		Status:     200,
		StatusText: "OK",
		Body:       `[{"bl_id":"ADM"}]`,
	}})

	view := s.GetPreviewView().View()
	for _, want := range []string{"gateway.example.com", "buildingId: ADM", "floorId: 02", "Results (1 Records)"} {
		if !strings.Contains(view, want) {
			t.Errorf("preview missing %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "buildingId") > strings.Index(view, "floorId") {
		t.Error("form values should be sorted by name")
	}

	if !s.GetPreviewVisible() {
		t.Error("preview visible by default")
	}
	s.TogglePreview()
	if s.GetPreviewVisible() {
		t.Error("TogglePreview should hide the preview")
	}
}

func TestHistoryState_ConcurrentAccess(t *testing.T) {
	s := NewHistoryState()
	s.SetEntries(entries("a", "b", "c", "d"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i%2 == 0 {
					s.Navigate(1)
				} else {
					_ = s.GetCurrentEntry()
					_ = s.GetEntries()
				}
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}
