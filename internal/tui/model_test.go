package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/archibus-connect/internal/app"
	"github.com/studiowebux/archibus-connect/internal/config"
	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/history"
	"github.com/studiowebux/archibus-connect/internal/version"
)

func TestNew_InitializesStateCorrectly(t *testing.T) {
	m := CreateTestModel(t, "")

	AssertModelField(t, "mode", m.mode, ModeForm)
	AssertModelField(t, "focus", m.focus, 0)
	AssertModelField(t, "fields", len(m.fields), 7)
	AssertModelField(t, "loading", m.state.Loading, false)
	AssertModelField(t, "phase", m.state.Phase, app.Idle)
	AssertModelField(t, "display empty", m.display.IsEmpty(), true)
	AssertModelField(t, "first input focused", m.inputs[0].Focused(), true)
}

func TestFocusNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"tab moves down", []string{"tab"}, 1},
		{"down moves down", []string{"down", "down"}, 2},
		{"shift+tab wraps to clear button", []string{"shift+tab"}, 8},
		{"tab through fields reaches submit", []string{"tab", "tab", "tab", "tab", "tab", "tab", "tab"}, 7},
		{"tab wraps back to first field", []string{"shift+tab", "tab"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CreateTestModel(t, "")
			for _, k := range tt.keys {
				press(m, k)
			}
			AssertModelField(t, "focus", m.focus, tt.want)
		})
	}
}

func TestDropdownCycling(t *testing.T) {
	m := CreateTestModel(t, "")
	m.setFocus(5) // File Type
	require.Equal(t, form.FieldFileType, m.fields[m.focus].Name)

	press(m, "right")
	AssertModelField(t, "after right", m.state.Form.Value(form.FieldFileType), "pdf")
	press(m, "left")
	press(m, "left")
	AssertModelField(t, "wrapped left", m.state.Form.Value(form.FieldFileType), "csv")
}

func TestTypingUpdatesFormState(t *testing.T) {
	m := CreateTestModel(t, "")

	press(m, "ADM")
	AssertModelField(t, "buildingId", m.state.Form.Value(form.FieldBuildingID), "ADM")

	// left on a text field moves the cursor instead of cycling
	before := m.state.Form.Values()
	press(m, "left")
	if diff := cmp.Diff(before, m.state.Form.Values()); diff != "" {
		t.Errorf("left changed the form (-want +got):\n%s", diff)
	}
}

func TestSubmitShowsRowTable(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))
	press(m, "ADM")

	cmd := press(m, "enter")
	AssertModelField(t, "loading while submitting", m.state.Loading, true)
	require.Contains(t, m.View(), "Loading...")

	drive(t, m, cmd)

	AssertModelField(t, "loading", m.state.Loading, false)
	AssertModelField(t, "phase", m.state.Phase, app.Succeeded)
	require.True(t, m.display.IsTable())
	AssertModelField(t, "records", m.display.RecordCount(), 3)
	require.Contains(t, m.View(), "Results (3 Records)")

	entries, err := m.history.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	AssertModelField(t, "history records", entries[0].RecordCount, 3)
	AssertModelField(t, "history form", entries[0].Form[form.FieldBuildingID], "ADM")
}

func TestSubmitWhileLoadingIsRejected(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))

	cmd := press(m, "ctrl+s")
	require.NotNil(t, cmd)
	again := press(m, "ctrl+s")

	require.Nil(t, again)
	AssertModelField(t, "error", m.errorMsg, app.ErrBusy.Error())
	AssertModelField(t, "still loading", m.state.Loading, true)
	drive(t, m, cmd)
}

func TestSubmitWithoutEndpoint(t *testing.T) {
	m := CreateTestModel(t, "")

	cmd := press(m, "enter")

	require.Nil(t, cmd)
	AssertModelField(t, "loading", m.state.Loading, false)
	require.NotEmpty(t, m.errorMsg)
}

func TestSubmitGatewayError(t *testing.T) {
	endpoint := strings.TrimSuffix(CreateMockGateway(t), "/archibus") + "/down"
	m := CreateTestModel(t, endpoint)

	drive(t, m, press(m, "enter"))

	AssertModelField(t, "phase", m.state.Phase, app.Failed)
	require.True(t, m.display.IsError())
	require.Contains(t, m.errorMsg, "503")
	require.Contains(t, m.View(), "503")
}

func TestSubmitRawText(t *testing.T) {
	endpoint := strings.TrimSuffix(CreateMockGateway(t), "/archibus") + "/text"
	m := CreateTestModel(t, endpoint)

	drive(t, m, press(m, "enter"))

	AssertModelField(t, "raw text", m.display.Text(), "accepted")
	require.Contains(t, m.View(), "accepted")
}

func TestCancelRequest(t *testing.T) {
	m := CreateTestModel(t, "")
	sender := blockingSender{started: make(chan struct{})}
	m.sender = sender

	cmd := press(m, "enter")
	done := make(chan struct{})
	go func() {
		defer close(done)
		drive(t, m, cmd)
	}()

	<-sender.started
	press(m, "esc")
	AssertModelField(t, "cancelling", m.statusMsg, "Cancelling request...")
	<-done

	AssertModelField(t, "loading", m.state.Loading, false)
	AssertModelField(t, "status", m.statusMsg, "Request cancelled")
	entries, err := m.history.List(10)
	require.NoError(t, err)
	require.Empty(t, entries, "cancelled submissions are not recorded")
}

func TestClear(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))
	press(m, "ADM")
	drive(t, m, press(m, "enter"))
	require.True(t, m.display.IsTable())

	press(m, "ctrl+r")

	AssertModelField(t, "buildingId", m.state.Form.Value(form.FieldBuildingID), "")
	AssertModelField(t, "input", m.inputs[0].Value(), "")
	AssertModelField(t, "display empty", m.display.IsEmpty(), true)
	AssertModelField(t, "phase", m.state.Phase, app.Idle)
}

func TestClearWhileLoadingIsIgnored(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))
	press(m, "ADM")
	cmd := press(m, "enter")

	press(m, "ctrl+r")

	AssertModelField(t, "error", m.errorMsg, app.ErrBusy.Error())
	AssertModelField(t, "buildingId kept", m.state.Form.Value(form.FieldBuildingID), "ADM")
	drive(t, m, cmd)
}

func TestEnterOnClearButtonClears(t *testing.T) {
	m := CreateTestModel(t, "")
	press(m, "ADM")
	m.setFocus(m.focusClear())

	press(m, "enter")

	AssertModelField(t, "buildingId", m.state.Form.Value(form.FieldBuildingID), "")
}

func TestFilterKeepsSourceResult(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))
	press(m, "ADM")
	drive(t, m, press(m, "enter"))

	press(m, "ctrl+f")
	require.Equal(t, ModeFilter, m.mode)
	m.filterInput.SetValue("[?fl_id=='01']")
	drive(t, m, press(m, "enter"))

	AssertModelField(t, "mode", m.mode, ModeForm)
	AssertModelField(t, "filtered records", m.display.RecordCount(), 1)
	AssertModelField(t, "source records", m.state.Result.RecordCount(), 3)
	require.Contains(t, m.View(), "Results (1 Records)")

	// an empty expression restores the full table
	press(m, "ctrl+f")
	m.filterInput.SetValue("")
	press(m, "enter")
	AssertModelField(t, "restored records", m.display.RecordCount(), 3)
}

func TestLateFilterAfterClearIsDropped(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))
	press(m, "ADM")
	drive(t, m, press(m, "enter"))

	msg := run(t, m.runFilter("[?fl_id=='01']"))
	press(m, "ctrl+r")
	m.Update(msg)

	require.True(t, m.display.IsEmpty(), "display = %s", m.display.Kind())
	AssertModelField(t, "filterExpr", m.filterExpr, "")

	press(m, "ctrl+e")
	require.Contains(t, m.errorMsg, "no result table")
	_, err := os.Stat(filepath.Join(m.settings.ExportDir, "data.csv"))
	require.True(t, os.IsNotExist(err), "data.csv written after clear")
}

func TestLateFilterAfterNewerResultIsDropped(t *testing.T) {
	tests := []struct {
		name    string
		replace func(t *testing.T, m *Model)
	}{
		{"newer submit", func(t *testing.T, m *Model) {
			drive(t, m, press(m, "enter"))
		}},
		{"history restore", func(t *testing.T, m *Model) {
			drive(t, m, press(m, "ctrl+o"))
			press(m, "enter")
		}},
		{"filter cleared", func(t *testing.T, m *Model) {
			press(m, "ctrl+f")
			m.filterInput.SetValue("")
			press(m, "enter")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CreateTestModel(t, CreateMockGateway(t))
			press(m, "ADM")
			drive(t, m, press(m, "enter"))

			msg := run(t, m.runFilter("[?fl_id=='01']"))
			tt.replace(t, m)
			m.Update(msg)

			AssertModelField(t, "mode", m.mode, ModeForm)
			AssertModelField(t, "displayed records", m.display.RecordCount(), 3)
			AssertModelField(t, "filterExpr", m.filterExpr, "")
		})
	}
}

func TestFilterNeedsTable(t *testing.T) {
	m := CreateTestModel(t, "")

	press(m, "ctrl+f")

	AssertModelField(t, "mode", m.mode, ModeForm)
	require.NotEmpty(t, m.errorMsg)
}

func TestInvalidFilterExpression(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))
	drive(t, m, press(m, "enter"))

	press(m, "ctrl+f")
	m.filterInput.SetValue("[?")
	cmd := press(m, "enter")

	require.Nil(t, cmd)
	require.Contains(t, m.errorMsg, "Invalid filter")
	AssertModelField(t, "records", m.display.RecordCount(), 8)
}

func TestExportCSV(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))

	press(m, "ctrl+e")
	require.Contains(t, m.errorMsg, "no result table")

	press(m, "LIB")
	drive(t, m, press(m, "enter"))
	press(m, "ctrl+e")

	path := filepath.Join(m.settings.ExportDir, "data.csv")
	require.Contains(t, m.statusMsg, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	AssertModelField(t, "csv lines", len(lines), 2)
	require.True(t, strings.HasPrefix(lines[0], "LIB,Main Library,LIBR,01,Reading Room,"), lines[0])
}

func TestHistoryBrowser(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))
	press(m, "ADM")
	drive(t, m, press(m, "enter"))
	press(m, "ctrl+r")
	press(m, "LIB")
	drive(t, m, press(m, "enter"))
	press(m, "ctrl+r")

	drive(t, m, press(m, "ctrl+o"))
	require.Equal(t, ModeHistory, m.mode)
	AssertModelField(t, "entries", m.historyState.Len(), 2)
	require.Contains(t, m.View(), "2 history entries")

	// newest first: LIB, then ADM
	press(m, "down")
	press(m, "enter")

	AssertModelField(t, "mode", m.mode, ModeForm)
	AssertModelField(t, "restored buildingId", m.state.Form.Value(form.FieldBuildingID), "ADM")
	AssertModelField(t, "restored input", m.inputs[0].Value(), "ADM")
	AssertModelField(t, "restored records", m.display.RecordCount(), 3)
}

func TestHistoryDeleteAndClear(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))
	for i := 0; i < 3; i++ {
		drive(t, m, press(m, "enter"))
	}

	drive(t, m, press(m, "ctrl+o"))
	AssertModelField(t, "entries", m.historyState.Len(), 3)

	press(m, "d")
	AssertModelField(t, "after delete", m.historyState.Len(), 2)

	press(m, "C")
	AssertModelField(t, "confirm mode", m.mode, ModeHistoryClearConfirm)
	press(m, "n")
	AssertModelField(t, "cancelled", m.mode, ModeHistory)
	AssertModelField(t, "kept", m.historyState.Len(), 2)

	press(m, "C")
	press(m, "y")
	AssertModelField(t, "cleared", m.historyState.Len(), 0)

	entries, err := m.history.List(10)
	require.NoError(t, err)
	require.Empty(t, entries)

	press(m, "esc")
	AssertModelField(t, "closed", m.mode, ModeForm)
}

func TestHistoryDisabled(t *testing.T) {
	m := CreateTestModel(t, CreateMockGateway(t))
	m.settings.HistoryEnabled = false

	drive(t, m, press(m, "enter"))

	entries, err := m.history.List(10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSettingsReload(t *testing.T) {
	m := CreateTestModel(t, "https://old.example.com/api")

	s := config.Defaults()
	s.APIURL = "https://new.example.com/api"
	m.Update(settingsReloadedMsg{reload: config.Reload{Settings: s}})

	AssertModelField(t, "endpoint", m.settings.APIURL, "https://new.example.com/api")
	require.Contains(t, m.View(), "https://new.example.com/api")

	m.Update(settingsReloadedMsg{reload: config.Reload{Err: os.ErrInvalid}})
	AssertModelField(t, "endpoint kept", m.settings.APIURL, "https://new.example.com/api")
	require.Contains(t, m.errorMsg, "Settings not reloaded")
}

func TestHelpView(t *testing.T) {
	m := CreateTestModel(t, "")

	press(m, "ctrl+g")
	AssertModelField(t, "mode", m.mode, ModeHelp)
	content := m.helpContent()
	for _, want := range []string{"ctrl+s", "export CSV", "clear history"} {
		require.Contains(t, content, want)
	}

	press(m, "esc")
	AssertModelField(t, "mode", m.mode, ModeForm)
}

func TestVersionNotice(t *testing.T) {
	m := CreateTestModel(t, "")

	m.Update(versionCheckMsg{update: version.Update{
		Current:   "test-version",
		Latest:    "v9.9.9",
		URL:       "https://github.com/studiowebux/archibus-connect/releases/tag/v9.9.9",
		Available: true,
	}})

	AssertModelField(t, "updateAvailable", m.updateAvailable, true)
	require.Contains(t, m.View(), "Update v9.9.9 available")
}

func TestQuit(t *testing.T) {
	m := CreateTestModel(t, "")

	cmd := press(m, "ctrl+c")

	require.NotNil(t, cmd)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestViewBeforeWindowSize(t *testing.T) {
	m, err := New(Options{Settings: config.Defaults()})
	require.NoError(t, err)
	AssertModelField(t, "view", m.View(), "Initializing...")

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Contains(t, m.View(), Title)
	require.Contains(t, m.View(), "(not configured)")
}

func TestHistoryEntryRestoresTransportFailure(t *testing.T) {
	m := CreateTestModel(t, "")
	m.historyState.SetEntries([]history.Entry{{ID: "x", Error: "Network error: Connection refused", Form: map[string]string{form.FieldFloorID: "02"}}})
	m.mode = ModeHistory

	press(m, "enter")

	AssertModelField(t, "floorId", m.state.Form.Value(form.FieldFloorID), "02")
	require.True(t, m.display.IsError())
	require.Contains(t, m.View(), "Connection refused")
}
