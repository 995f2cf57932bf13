package story

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
)

func TestOpenRepoMissing(t *testing.T) {
	repo := OpenRepo(t.TempDir())
	if repo != nil {
		t.Error("plain directory should not open as a repo")
	}
	// All methods tolerate the nil repo.
	if err := repo.CommitMetadata("noop", []Entry{{MetadataFile: "x"}}); err != nil {
		t.Errorf("nil repo commit: %v", err)
	}
}

func TestCommitMetadata(t *testing.T) {
	root := t.TempDir()
	if _, err := git.PlainInit(root, false); err != nil {
		t.Fatal(err)
	}
	storyFile := filepath.Join(root, "story.txt")
	if err := os.WriteFile(storyFile, []byte("words"), 0644); err != nil {
		t.Fatal(err)
	}
	metaFile := MetadataPath(storyFile)
	if err := os.WriteFile(metaFile, []byte(`{"title": "Story", "description": "", "tags": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	repo := OpenRepo(root)
	if repo == nil {
		t.Fatal("repo should open")
	}
	entry := Entry{Title: "Story", File: storyFile, MetadataFile: metaFile}
	if err := repo.CommitMetadata("edit title", []Entry{entry}); err != nil {
		t.Fatal(err)
	}

	head, err := repo.repo.Head()
	if err != nil {
		t.Fatal(err)
	}
	commit, err := repo.repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatal(err)
	}
	if commit.Message != "edit title" {
		t.Errorf("message = %q", commit.Message)
	}
	if commit.Author.Name != "skald" {
		t.Errorf("author = %q", commit.Author.Name)
	}
}
