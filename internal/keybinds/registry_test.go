package keybinds

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistryMatch(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name    string
		context Context
		key     string
		want    Action
		wantOK  bool
	}{
		{"context binding", ContextForm, "tab", ActionNextField, true},
		{"global fallback", ContextForm, "ctrl+s", ActionSubmit, true},
		{"context wins", ContextFilter, "enter", ActionTextSubmit, true},
		{"history vim keys", ContextHistory, "j", ActionNavigateDown, true},
		{"unbound", ContextForm, "z", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Match(tt.context, tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Match(%s, %q) = %q, %v; want %q, %v", tt.context, tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRegistryGetBinding(t *testing.T) {
	r := NewDefaultRegistry()

	if diff := cmp.Diff([]string{"down", "tab"}, r.GetBinding(ContextForm, ActionNextField)); diff != "" {
		t.Errorf("GetBinding mismatch (-want +got):\n%s", diff)
	}
	if got := r.GetBindingString(ContextHistory, ActionExportCSV); got != "ctrl+e" {
		t.Errorf("GetBindingString() = %q, want global fallback ctrl+e", got)
	}
	if got := r.GetBindingString(ContextConfirm, ActionHistoryLoad); got != "unbound" {
		t.Errorf("GetBindingString() = %q, want unbound", got)
	}
}

func TestRegistryUnbind(t *testing.T) {
	r := NewDefaultRegistry()
	r.Unbind(ContextForm, ActionNextField)

	if r.HasBinding(ContextForm, "tab") || r.HasBinding(ContextForm, "down") {
		t.Error("next_field keys still bound after Unbind")
	}
	if !r.HasBinding(ContextForm, "up") {
		t.Error("Unbind removed an unrelated binding")
	}
}

func TestRegistryCloneIsIndependent(t *testing.T) {
	r := NewDefaultRegistry()
	clone := r.Clone()
	clone.Register(ContextForm, "f5", ActionSubmit)

	if r.HasBinding(ContextForm, "f5") {
		t.Error("Register on clone changed the original")
	}
	if !clone.HasBinding(ContextForm, "f5") {
		t.Error("clone missing new binding")
	}
}

func TestListBindingsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(ContextGlobal, "ctrl+s", ActionSubmit)
	r.Register(ContextConfirm, "y", ActionConfirm)
	r.Register(ContextConfirm, "n", ActionCancel)

	got := r.ListBindings(ContextConfirm)
	want := []Binding{
		{Key: "n", Action: ActionCancel, Context: ContextConfirm},
		{Key: "y", Action: ActionConfirm, Context: ContextConfirm},
		{Key: "ctrl+s", Action: ActionSubmit, Context: ContextGlobal},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListBindings mismatch (-want +got):\n%s", diff)
	}
}
