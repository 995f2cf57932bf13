package story

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Metadata is the JSON sidecar format. Each story file NAME has a hidden
// sidecar .NAME.metadata next to it.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Recap       string   `json:"recap,omitempty"`
}

// MetadataPath returns the sidecar path for a story file.
func MetadataPath(storyFile string) string {
	dir, name := filepath.Split(storyFile)
	return filepath.Join(dir, "."+name+".metadata")
}

// ReadMetadata loads and decodes a sidecar file.
func ReadMetadata(path string) (Metadata, error) {
	var meta Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("bad metadata in %s: %w", path, err)
	}
	return meta, nil
}

// WriteMetadata rewrites the sidecar files for the given entries.
func WriteMetadata(entries []Entry) error {
	for _, entry := range entries {
		meta := Metadata{
			Title:       entry.Title,
			Description: entry.Description,
			Tags:        entry.TagList(),
			Recap:       entry.Recap,
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := os.WriteFile(entry.MetadataFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write metadata for %s: %w", entry.Title, err)
		}
	}
	return nil
}

// NewEntry creates a story file (unless it already exists) and its
// metadata sidecar under root. It returns the created entry's paths and
// whether the story file already existed. Creating a sidecar for a file
// that already has one is an error.
func NewEntry(root, relPath string, tags []string, capitalize bool) (storyFile, metaFile string, existed bool, err error) {
	storyFile = filepath.Join(root, relPath)
	metaFile = MetadataPath(storyFile)
	if _, err := os.Stat(metaFile); err == nil {
		return "", "", false, fmt.Errorf("metadata already exists for %s", relPath)
	}
	if _, err := os.Stat(storyFile); err == nil {
		existed = true
	}
	if err := os.MkdirAll(filepath.Dir(storyFile), 0755); err != nil {
		return "", "", false, err
	}
	if !existed {
		if err := os.WriteFile(storyFile, nil, 0644); err != nil {
			return "", "", false, err
		}
	}
	set := TagSet(tags...)
	names := make([]string, 0, len(set))
	for tag := range set {
		names = append(names, tag)
	}
	sort.Strings(names)
	meta := Metadata{
		Title:       TitleFromFilename(filepath.Base(storyFile), capitalize),
		Description: "",
		Tags:        names,
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", "", false, err
	}
	if err := os.WriteFile(metaFile, data, 0644); err != nil {
		return "", "", false, err
	}
	return storyFile, metaFile, existed, nil
}
