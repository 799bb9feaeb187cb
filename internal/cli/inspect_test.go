package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/rustprint/pkg/pipeline"
	"github.com/matzehuels/rustprint/pkg/scan"
)

func testReport() *pipeline.Report {
	return &pipeline.Report{
		Name: "app",
		Result: scan.Result{
			Packages: []scan.Package{
				{Path: "/cargo/registry/src/index.crates.io-6f17d22bba15001f/serde-1.0.152", Name: "serde", Version: "1.0.152"},
				{Path: "/cargo/registry/src/index.crates.io-6f17d22bba15001f/tokio-1.28.0", Name: "tokio", Version: "1.28.0"},
			},
			FrameworkSourcePaths: []string{"/rustc/84c898d65adf2f39a5a98507f1fe0ce10a2b8dbc/library/core/src/panicking.rs"},
			UserSourcePaths:      []string{"/home/dev/app/src/main.rs"},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m InspectModel, keys ...string) InspectModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(InspectModel)
	}
	return m
}

func TestInspectModelTabs(t *testing.T) {
	m := NewInspectModel(testReport())

	tests := []struct {
		keys []string
		want inspectTab
	}{
		{nil, tabPackages},
		{[]string{"tab"}, tabFramework},
		{[]string{"tab", "tab"}, tabUser},
		{[]string{"tab", "tab", "tab"}, tabPackages},
		{[]string{"shift+tab"}, tabUser},
		{[]string{"l", "h"}, tabPackages},
	}

	for _, tt := range tests {
		got := update(m, tt.keys...)
		if got.Tab != tt.want {
			t.Errorf("keys %v: tab = %s, want %s", tt.keys, got.Tab, tt.want)
		}
	}
}

func TestInspectModelCursor(t *testing.T) {
	m := NewInspectModel(testReport())

	m = update(m, "down", "down", "down")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want clamped to 1", m.Cursor)
	}
	m = update(m, "k", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}

	m = update(m, "j", "tab")
	if m.Cursor != 0 {
		t.Error("switching tabs should reset the cursor")
	}
}

func TestInspectModelScroll(t *testing.T) {
	r := testReport()
	r.Packages = nil
	for i := range 10 {
		r.Packages = append(r.Packages, scan.Package{Name: "crate", Version: string(rune('0' + i))})
	}
	m := NewInspectModel(r)
	m.Height = 3

	m = update(m, "j", "j", "j", "j")
	if m.Cursor != 4 || m.Offset != 2 {
		t.Errorf("cursor/offset = %d/%d, want 4/2", m.Cursor, m.Offset)
	}
	m = update(m, "k", "k", "k")
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
}

func TestInspectModelQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		msg := key(k)
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		_, cmd := NewInspectModel(testReport()).Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestInspectModelWindowSize(t *testing.T) {
	next, _ := NewInspectModel(testReport()).Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if h := next.(InspectModel).Height; h != 31 {
		t.Errorf("height = %d, want 31", h)
	}
	next, _ = NewInspectModel(testReport()).Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	if h := next.(InspectModel).Height; h != 5 {
		t.Errorf("height = %d, want minimum 5", h)
	}
}

func TestInspectModelView(t *testing.T) {
	m := NewInspectModel(testReport())

	view := m.View()
	for _, want := range []string{"app", "serde", "1.0.152", "Packages (2)", "User paths (1)", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	view = update(m, "tab", "tab").View()
	if !strings.Contains(view, "/home/dev/app/src/main.rs") {
		t.Error("user tab should list user source paths")
	}

	empty := NewInspectModel(&pipeline.Report{Name: "empty"})
	if !strings.Contains(empty.View(), "nothing found") {
		t.Error("empty report should render placeholder")
	}
}
