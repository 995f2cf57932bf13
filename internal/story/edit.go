package story

import (
	"errors"
	"fmt"
)

// ErrReadOnly is returned when editing an attribute that has no parser.
var ErrReadOnly = errors.New("attribute is read-only")

// EditEntry sets one attribute of the entry at index (in the full list)
// from its raw terminal representation and returns a new entry list. The
// editable attributes are title, description, recap and tags.
func EditEntry(entries []Entry, index int, attribute, raw string) ([]Entry, error) {
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("index out of range: %d", index)
	}
	entry := entries[index]
	switch attribute {
	case "title":
		entry.Title = raw
	case "description":
		entry.Description = raw
	case "recap":
		entry.Recap = raw
	case "tags":
		entry.Tags = ParseTags(raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, attribute)
	}
	updated := make([]Entry, len(entries))
	copy(updated, entries)
	updated[index] = entry
	return updated, nil
}

// ReplaceTags rewrites tags across the visible entries and returns a new
// full entry list. With both tags given, oldTag becomes newTag wherever
// oldTag exists; with only oldTag, it is removed everywhere; with only
// newTag, it is added to every visible entry.
func ReplaceTags(oldTag, newTag string, entries, visible []Entry) ([]Entry, error) {
	if oldTag == "" && newTag == "" {
		return nil, errors.New("no tags specified, nothing to do")
	}
	visibleIndices := make(map[int]struct{}, len(visible))
	for _, entry := range visible {
		visibleIndices[entry.Index] = struct{}{}
	}
	updated := make([]Entry, len(entries))
	copy(updated, entries)
	for i, entry := range updated {
		if _, ok := visibleIndices[entry.Index]; !ok {
			continue
		}
		if oldTag != "" && !entry.HasTag(oldTag) {
			continue
		}
		tags := make(map[string]struct{}, len(entry.Tags)+1)
		for tag := range entry.Tags {
			if tag != oldTag {
				tags[tag] = struct{}{}
			}
		}
		if newTag != "" {
			tags[newTag] = struct{}{}
		}
		entry.Tags = tags
		updated[i] = entry
	}
	return updated, nil
}

// GetDiff pairs up the entries that differ between two lists of the same
// length and returns the old and new versions.
func GetDiff(oldEntries, newEntries []Entry) (changedOld, changedNew []Entry) {
	for i := range oldEntries {
		if i >= len(newEntries) {
			break
		}
		if !oldEntries[i].Equal(newEntries[i]) {
			changedOld = append(changedOld, oldEntries[i])
			changedNew = append(changedNew, newEntries[i])
		}
	}
	return changedOld, changedNew
}

// UndoStack keeps batches of pre-edit entries so edits can be reverted
// newest first.
type UndoStack struct {
	batches [][]Entry
}

// Push saves a batch of entries as they were before an edit.
func (s *UndoStack) Push(batch []Entry) {
	if len(batch) == 0 {
		return
	}
	s.batches = append(s.batches, batch)
}

// Pop removes and returns the most recent batch, or nil if there is
// nothing to undo.
func (s *UndoStack) Pop() []Entry {
	if len(s.batches) == 0 {
		return nil
	}
	batch := s.batches[len(s.batches)-1]
	s.batches = s.batches[:len(s.batches)-1]
	return batch
}

// Len returns the number of undoable batches.
func (s *UndoStack) Len() int {
	return len(s.batches)
}

// Undo writes a batch of old entries back into the full entry list by
// their indices and returns the new list.
func Undo(entries []Entry, batch []Entry) []Entry {
	updated := make([]Entry, len(entries))
	copy(updated, entries)
	for _, entry := range batch {
		if entry.Index >= 0 && entry.Index < len(updated) {
			updated[entry.Index] = entry
		}
	}
	return updated
}
