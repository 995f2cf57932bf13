package story

import (
	"errors"
	"testing"
)

func TestEditEntryTitle(t *testing.T) {
	entries := testEntries()
	updated, err := EditEntry(entries, 0, "title", "Deep Winter")
	if err != nil {
		t.Fatal(err)
	}
	if updated[0].Title != "Deep Winter" {
		t.Errorf("got %q", updated[0].Title)
	}
	if entries[0].Title != "Winter" {
		t.Error("original list was mutated")
	}
}

func TestEditEntryTags(t *testing.T) {
	entries := testEntries()
	updated, err := EditEntry(entries, 1, "tags", " scifi , sequel ,")
	if err != nil {
		t.Fatal(err)
	}
	got := updated[1].TagList()
	if len(got) != 2 || got[0] != "scifi" || got[1] != "sequel" {
		t.Errorf("got %v", got)
	}
}

func TestEditEntryReadOnly(t *testing.T) {
	if _, err := EditEntry(testEntries(), 0, "wordcount", "10"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("got %v, want ErrReadOnly", err)
	}
}

func TestEditEntryOutOfRange(t *testing.T) {
	if _, err := EditEntry(testEntries(), 7, "title", "x"); err == nil {
		t.Error("expected an error")
	}
}

func TestReplaceTagsRename(t *testing.T) {
	entries := testEntries()
	updated, err := ReplaceTags("wip", "done", entries, entries)
	if err != nil {
		t.Fatal(err)
	}
	if !updated[0].HasTag("done") || updated[0].HasTag("wip") {
		t.Errorf("got %v", updated[0].TagList())
	}
	// Entries without the old tag are untouched.
	if !updated[1].Equal(entries[1]) {
		t.Errorf("entry without old tag changed: %v", updated[1].TagList())
	}
}

func TestReplaceTagsRemove(t *testing.T) {
	entries := testEntries()
	updated, err := ReplaceTags("wip", "", entries, entries)
	if err != nil {
		t.Fatal(err)
	}
	if updated[0].HasTag("wip") {
		t.Errorf("got %v", updated[0].TagList())
	}
}

func TestReplaceTagsAddToVisible(t *testing.T) {
	entries := testEntries()
	visible := entries[:2]
	updated, err := ReplaceTags("", "reviewed", entries, visible)
	if err != nil {
		t.Fatal(err)
	}
	if !updated[0].HasTag("reviewed") || !updated[1].HasTag("reviewed") {
		t.Error("visible entries should have gained the tag")
	}
	if updated[2].HasTag("reviewed") {
		t.Error("hidden entry should be untouched")
	}
}

func TestReplaceTagsNothingToDo(t *testing.T) {
	entries := testEntries()
	if _, err := ReplaceTags("", "", entries, entries); err == nil {
		t.Error("expected an error")
	}
}

func TestGetDiff(t *testing.T) {
	entries := testEntries()
	updated, err := EditEntry(entries, 1, "description", "now with words")
	if err != nil {
		t.Fatal(err)
	}
	changedOld, changedNew := GetDiff(entries, updated)
	if len(changedOld) != 1 || len(changedNew) != 1 {
		t.Fatalf("got %d/%d changes", len(changedOld), len(changedNew))
	}
	if changedOld[0].Description != "" || changedNew[0].Description != "now with words" {
		t.Errorf("got %q -> %q", changedOld[0].Description, changedNew[0].Description)
	}
}

func TestUndo(t *testing.T) {
	entries := testEntries()
	var undo UndoStack
	updated, err := EditEntry(entries, 0, "title", "Changed")
	if err != nil {
		t.Fatal(err)
	}
	changedOld, _ := GetDiff(entries, updated)
	undo.Push(changedOld)

	if undo.Len() != 1 {
		t.Fatalf("undo stack has %d batches", undo.Len())
	}
	restored := Undo(updated, undo.Pop())
	if restored[0].Title != "Winter" {
		t.Errorf("got %q after undo", restored[0].Title)
	}
	if undo.Pop() != nil {
		t.Error("empty stack should pop nil")
	}
}

func TestUndoStackIgnoresEmptyBatches(t *testing.T) {
	var undo UndoStack
	undo.Push(nil)
	if undo.Len() != 0 {
		t.Error("empty batch should not be pushed")
	}
}
