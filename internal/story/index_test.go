package story

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStory(t *testing.T, root, name, content, metadata string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(MetadataPath(path), []byte(metadata), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexStories(t *testing.T) {
	// Keep the word count cache inside the test dir.
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()

	writeStory(t, root, "winter.txt", "one two three four five",
		`{"title": "Winter", "description": "cold", "tags": ["fantasy", "wip"]}`)
	writeStory(t, root, "novels/summer.txt", "six seven eight",
		`{"title": "Summer", "description": "", "tags": [], "recap": "so far so good"}`)
	// A file without a sidecar is not an entry.
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	// Backstory pages for winter.
	metadir := filepath.Join(root, "winter.txt.metadir")
	if err := os.MkdirAll(metadir, 0755); err != nil {
		t.Fatal(err)
	}
	page := `{"title": "Notes", "created": "2024-01-01 10:00:00", "revision": 0, "revision created": "2024-01-01 10:00:00"}` + "\nalpha beta gamma"
	if err := os.WriteFile(filepath.Join(metadir, "notes"), []byte(page), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(metadir, "notes.rev0"), []byte(page), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := IndexStories(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	byTitle := make(map[string]Entry)
	for i, entry := range entries {
		if entry.Index != i {
			t.Errorf("entry %q has index %d, want %d", entry.Title, entry.Index, i)
		}
		byTitle[entry.Title] = entry
	}

	winter, ok := byTitle["Winter"]
	if !ok {
		t.Fatal("missing Winter entry")
	}
	if winter.WordCount != 5 {
		t.Errorf("Winter wordcount = %d, want 5", winter.WordCount)
	}
	if !winter.HasTag("fantasy") || !winter.HasTag("wip") {
		t.Errorf("Winter tags = %v", winter.TagList())
	}
	if winter.BackstoryWordCount != 3 || winter.BackstoryPages != 1 {
		t.Errorf("Winter backstory = %d words over %d pages, want 3 over 1",
			winter.BackstoryWordCount, winter.BackstoryPages)
	}

	summer, ok := byTitle["Summer"]
	if !ok {
		t.Fatal("missing Summer entry")
	}
	if summer.WordCount != 3 {
		t.Errorf("Summer wordcount = %d, want 3", summer.WordCount)
	}
	if summer.Recap != "so far so good" {
		t.Errorf("Summer recap = %q", summer.Recap)
	}
	if len(summer.Tags) != 0 {
		t.Errorf("Summer tags = %v, want none", summer.TagList())
	}

	// A second run hits the word count cache and must agree.
	again, err := IndexStories(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 2 {
		t.Fatalf("second run: got %d entries", len(again))
	}
	for i := range entries {
		if !entries[i].Equal(again[i]) {
			t.Errorf("cached run disagreed for %q", entries[i].Title)
		}
	}
}

func TestIndexStoriesKeepsUnreadableFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()

	writeStory(t, root, "winter.txt", "one two three",
		`{"title": "Winter", "description": "", "tags": []}`)
	// A sidecar whose story file can't be read: a dangling symlink.
	ghost := filepath.Join(root, "ghost.txt")
	if err := os.Symlink(filepath.Join(root, "does-not-exist"), ghost); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(MetadataPath(ghost), []byte(`{"title": "Ghost", "description": "", "tags": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := IndexStories(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, entry := range entries {
		if entry.Title == "Ghost" && entry.WordCount != 0 {
			t.Errorf("unreadable entry wordcount = %d, want 0", entry.WordCount)
		}
		if entry.Title == "Winter" && entry.WordCount != 3 {
			t.Errorf("Winter wordcount = %d, want 3", entry.WordCount)
		}
	}
}

func TestNewEntry(t *testing.T) {
	root := t.TempDir()
	storyFile, metaFile, existed, err := NewEntry(root, "tales/the-old-house.txt", []string{"fantasy", "draft"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if existed {
		t.Error("file should not have existed")
	}
	if _, err := os.Stat(storyFile); err != nil {
		t.Errorf("story file missing: %v", err)
	}
	meta, err := ReadMetadata(metaFile)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "The Old House" {
		t.Errorf("title = %q", meta.Title)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "draft" || meta.Tags[1] != "fantasy" {
		t.Errorf("tags = %v", meta.Tags)
	}

	// A second entry for the same path must fail.
	if _, _, _, err := NewEntry(root, "tales/the-old-house.txt", nil, true); err == nil {
		t.Error("duplicate entry should fail")
	}
}

func TestNewEntryForExistingFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "existing.txt")
	if err := os.WriteFile(path, []byte("some words here"), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, existed, err := NewEntry(root, "existing.txt", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if !existed {
		t.Error("existing file should be reported")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "some words here" {
		t.Error("existing file content was clobbered")
	}
}

func TestAllTags(t *testing.T) {
	entries := []Entry{
		{Tags: TagSet("a", "b")},
		{Tags: TagSet("b")},
		{Tags: TagSet("b", "c")},
	}
	tags := AllTags(entries)
	if len(tags) != 3 {
		t.Fatalf("got %d tags", len(tags))
	}
	if tags[0].Tag != "b" || tags[0].Count != 3 {
		t.Errorf("tags[0] = %+v", tags[0])
	}
	if tags[1].Tag != "a" || tags[2].Tag != "c" {
		t.Errorf("alphabetical tie-break failed: %+v", tags)
	}
}

func TestWriteMetadataRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeStory(t, root, "story.txt", "words", `{"title": "Old", "description": "", "tags": []}`)
	entry := Entry{
		Title:        "New Title",
		Description:  "described",
		Recap:        "recapped",
		Tags:         TagSet("one", "two"),
		File:         filepath.Join(root, "story.txt"),
		MetadataFile: MetadataPath(filepath.Join(root, "story.txt")),
	}
	if err := WriteMetadata([]Entry{entry}); err != nil {
		t.Fatal(err)
	}
	meta, err := ReadMetadata(entry.MetadataFile)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "New Title" || meta.Description != "described" || meta.Recap != "recapped" {
		t.Errorf("got %+v", meta)
	}
	if len(meta.Tags) != 2 {
		t.Errorf("tags = %v", meta.Tags)
	}
}
