package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/gateway"
	"github.com/studiowebux/archibus-connect/internal/result"
)

func TestReduceSubmitLifecycle(t *testing.T) {
	s := NewState(form.Default())
	if s.Phase != Idle || s.Loading {
		t.Fatalf("initial phase = %v loading = %v", s.Phase, s.Loading)
	}

	s, err := Reduce(s, Submit{})
	require.NoError(t, err)
	if s.Phase != Submitting || !s.Loading {
		t.Fatalf("after submit phase = %v loading = %v", s.Phase, s.Loading)
	}

	s, err = Reduce(s, Settle{Result: result.RawText("ok")})
	require.NoError(t, err)
	if s.Phase != Succeeded || s.Loading {
		t.Errorf("after settle phase = %v loading = %v", s.Phase, s.Loading)
	}
	if s.Result.Text() != "ok" {
		t.Errorf("result = %q", s.Result.Text())
	}

	// a finished submission can be followed by another
	s, err = Reduce(s, Submit{})
	require.NoError(t, err)
	s, err = Reduce(s, Settle{Result: result.ErrorText("Error 404: Not Found", nil)})
	require.NoError(t, err)
	if s.Phase != Failed || s.Loading {
		t.Errorf("after failed settle phase = %v loading = %v", s.Phase, s.Loading)
	}
}

func TestReduceSubmitWhileLoading(t *testing.T) {
	s, _ := Reduce(NewState(form.Default()), Submit{})

	got, err := Reduce(s, Submit{})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("Reduce(Submit) error = %v, want ErrBusy", err)
	}
	if got.Phase != Submitting || !got.Loading {
		t.Error("rejected submit changed state")
	}
}

func TestReduceSettleWithoutSubmit(t *testing.T) {
	_, err := Reduce(NewState(form.Default()), Settle{Result: result.RawText("late")})
	if !errors.Is(err, ErrNotSubmitting) {
		t.Errorf("Reduce(Settle) error = %v, want ErrNotSubmitting", err)
	}
}

func TestReduceClear(t *testing.T) {
	f := form.Default()
	s := NewState(f)
	s, _ = Reduce(s, SetField{Name: form.FieldBuildingID, Value: "HQ"})
	s, _ = Reduce(s, SetField{Name: form.FieldFileType, Value: "csv"})
	s, _ = Reduce(s, Submit{})
	s, _ = Reduce(s, Settle{Result: result.RawText("done")})

	s, err := Reduce(s, Clear{})
	require.NoError(t, err)
	if !s.Form.Equal(f.Initial()) {
		t.Errorf("form after clear = %v", s.Form.Values())
	}
	if !s.Result.IsEmpty() {
		t.Errorf("result after clear = %v", s.Result.Kind())
	}
	if s.Phase != Idle {
		t.Errorf("phase after clear = %v", s.Phase)
	}
}

func TestReduceClearWhileLoading(t *testing.T) {
	s := NewState(form.Default())
	s, _ = Reduce(s, SetField{Name: form.FieldFloorID, Value: "01"})
	s, _ = Reduce(s, Submit{})

	got, err := Reduce(s, Clear{})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("Reduce(Clear) error = %v, want ErrBusy", err)
	}
	if got.Form.Value(form.FieldFloorID) != "01" {
		t.Error("clear while loading reset the form")
	}
}

func TestReduceSetFieldUnknown(t *testing.T) {
	_, err := Reduce(NewState(form.Default()), SetField{Name: "nope"})
	var unknown *form.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Errorf("error = %v, want UnknownFieldError", err)
	}
}

func TestReduceRestore(t *testing.T) {
	s := NewState(form.Default())
	s, _ = Reduce(s, SetField{Name: form.FieldFloorName, Value: "Ground"})

	s, err := Reduce(s, Restore{
		Values: map[string]string{form.FieldBuildingID: "HQ", "legacyField": "x"},
		Result: result.RawText("stored"),
	})
	require.NoError(t, err)
	require.Equal(t, "HQ", s.Form.Value(form.FieldBuildingID))
	require.Equal(t, "", s.Form.Value(form.FieldFloorName))
	require.Equal(t, "json", s.Form.Value(form.FieldFileType))
	require.Equal(t, "stored", s.Result.Text())
}

type fakeSender struct {
	resp *gateway.Response
	err  error
}

func (f fakeSender) Send(context.Context, form.Payload) (*gateway.Response, error) {
	return f.resp, f.err
}

func TestExchange(t *testing.T) {
	tests := []struct {
		name     string
		sender   fakeSender
		wantKind result.Kind
		wantText string
	}{
		{
			name:     "table",
			sender:   fakeSender{resp: &gateway.Response{Status: 200, StatusText: "OK", Body: `[{"id":1}]`}},
			wantKind: result.KindTable,
		},
		{
			name:     "server error",
			sender:   fakeSender{resp: &gateway.Response{Status: 502, StatusText: "Bad Gateway"}},
			wantKind: result.KindError,
			wantText: "Server Error 502: Bad Gateway",
		},
		{
			name:     "network error",
			sender:   fakeSender{err: &gateway.NetworkError{Summary: "connection refused", Err: errors.New("dial")}},
			wantKind: result.KindError,
			wantText: "Network error: connection refused",
		},
		{
			name:     "plain error",
			sender:   fakeSender{err: context.Canceled},
			wantKind: result.KindError,
			wantText: "Network error: request cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Exchange(context.Background(), tt.sender, form.Payload{})
			if out.Result.Kind() != tt.wantKind {
				t.Fatalf("Kind() = %v, want %v", out.Result.Kind(), tt.wantKind)
			}
			if tt.wantText != "" && out.Result.Text() != tt.wantText {
				t.Errorf("Text() = %q, want %q", out.Result.Text(), tt.wantText)
			}
			if out.Result.IsError() {
				var netErr *gateway.NetworkError
				if tt.sender.err != nil && !errors.As(out.Result.Err(), &netErr) {
					t.Errorf("Err() = %v, want NetworkError", out.Result.Err())
				}
			}
		})
	}
}

func TestExchangeAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"bl_id":"HQ","name":"Headquarters"}]`))
	}))
	defer srv.Close()

	client, err := gateway.NewClient(srv.URL)
	require.NoError(t, err)

	f := form.Default()
	values, _ := f.Initial().SetField(form.FieldBuildingID, "HQ")
	payload := f.ToRequestPayload(values)

	out := Exchange(context.Background(), client, payload)
	require.True(t, out.Result.IsTable())
	require.Equal(t, 1, out.Result.RecordCount())

	entry := out.Entry(client.Endpoint(), values.Values(), payload)
	require.Equal(t, 200, entry.Status)
	require.Equal(t, "table", entry.ResultKind)
	require.Equal(t, 1, entry.RecordCount)
	require.Equal(t, "HQ", entry.Form[form.FieldBuildingID])
	require.Contains(t, entry.Payload, `"bl_id":"HQ"`)
	require.Empty(t, entry.Error)
}
