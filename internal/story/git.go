package story

import (
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo wraps an optional git repository at the story root. Metadata edits
// are committed when the root is version controlled, so the sidecars get
// a history for free.
type Repo struct {
	repo *git.Repository
	root string
}

// OpenRepo opens the repository at the story root. A root that isn't a
// git repository yields a nil Repo, which all methods tolerate.
func OpenRepo(root string) *Repo {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil
	}
	return &Repo{repo: repo, root: root}
}

// CommitFiles stages the given files and commits them. Calling this on a
// nil Repo is a no-op.
func (r *Repo) CommitFiles(message string, files []string) error {
	if r == nil {
		return nil
	}
	w, err := r.repo.Worktree()
	if err != nil {
		return err
	}
	for _, file := range files {
		relPath, err := filepath.Rel(r.root, file)
		if err != nil {
			return err
		}
		if _, err := w.Add(relPath); err != nil {
			return err
		}
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "skald",
			Email: "skald@localhost",
			When:  time.Now(),
		},
	})
	return err
}

// CommitMetadata commits the sidecar files of the given entries.
func (r *Repo) CommitMetadata(message string, entries []Entry) error {
	if r == nil || len(entries) == 0 {
		return nil
	}
	files := make([]string, len(entries))
	for i, entry := range entries {
		files[i] = entry.MetadataFile
	}
	return r.CommitFiles(message, files)
}
