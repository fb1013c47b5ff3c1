package main

import (
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"keynotes/notes"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"", 10, []string{""}},
		{"short", 10, []string{"short"}},
		{"hello world again", 11, []string{"hello world", "again"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"one\ntwo", 10, []string{"one", "two"}},
		{"héllo wörld", 6, []string{"héllo", "wörld"}},
	}
	for _, tt := range tests {
		if got := wrapText(tt.text, tt.width); !slices.Equal(got, tt.want) {
			t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestTUIStateMsg(t *testing.T) {
	m := tuiModel{width: 80, height: 24}
	next, _ := m.Update(StateMsg{Snapshot: notes.Snapshot{Recording: true, CurrentNote: "abc", Notes: []string{"first"}}})
	view := next.(tuiModel).View()

	for _, want := range []string{"REC 3 chars", "1 note(s)", "abc", "first"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTUITickPolls(t *testing.T) {
	calls := 0
	m := tuiModel{width: 80, height: 24, poll: func() (notes.Snapshot, error) {
		calls++
		return notes.Snapshot{}, errors.New("poisoned")
	}}
	next, cmd := m.Update(tickMsg{})
	if calls != 1 {
		t.Errorf("poll called %d times, want 1", calls)
	}
	if cmd == nil {
		t.Error("tick did not reschedule")
	}
	if view := next.(tuiModel).View(); !strings.Contains(view, "poisoned") {
		t.Errorf("error not shown:\n%s", view)
	}
}

func TestTUICtrlCQuits(t *testing.T) {
	_, cmd := tuiModel{}.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("no command returned")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}
