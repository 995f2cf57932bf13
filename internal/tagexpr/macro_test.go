package tagexpr

import (
	"errors"
	"testing"
)

func TestExpandMacros(t *testing.T) {
	macros := map[string]string{"macaron": "foo | bar | (x, y)"}
	got, err := ExpandMacros("a, b, @macaron, c", macros)
	if err != nil {
		t.Fatalf("ExpandMacros returned error: %v", err)
	}
	want := "a, b, (foo | bar | (x, y)), c"
	if got != want {
		t.Errorf("ExpandMacros = %q, want %q", got, want)
	}
}

func TestExpandMacrosNested(t *testing.T) {
	macros := map[string]string{
		"inner": "x | y",
		"outer": "a, @inner",
	}
	got, err := ExpandMacros("@outer | b", macros)
	if err != nil {
		t.Fatalf("ExpandMacros returned error: %v", err)
	}
	want := "(a, (x | y))| b"
	if got != want {
		t.Errorf("ExpandMacros = %q, want %q", got, want)
	}
	if _, err := Compile("@outer | b", macros); err != nil {
		t.Errorf("nested macros should still compile, got %v", err)
	}
}

func TestExpandMacrosUnknown(t *testing.T) {
	if _, err := ExpandMacros("a, @nope", nil); !errors.Is(err, ErrUnknownMacro) {
		t.Errorf("got %v, want ErrUnknownMacro", err)
	}
}

func TestExpandMacrosCycle(t *testing.T) {
	cycles := []map[string]string{
		{"loop": "@loop"},
		{"ping": "@pong", "pong": "@ping"},
	}
	for _, macros := range cycles {
		for name := range macros {
			if _, err := ExpandMacros("@"+name, macros); !errors.Is(err, ErrCyclicMacro) {
				t.Errorf("macros %v: got %v, want ErrCyclicMacro", macros, err)
			}
			break
		}
	}
}

func TestExpandMacrosNoReferences(t *testing.T) {
	got, err := ExpandMacros("a, b", map[string]string{"unused": "x"})
	if err != nil {
		t.Fatalf("ExpandMacros returned error: %v", err)
	}
	if got != "a, b" {
		t.Errorf("ExpandMacros = %q, want it untouched", got)
	}
}
