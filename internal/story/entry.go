// Package story indexes a directory of story files with JSON metadata
// sidecars and provides filtering, sorting and editing over the entries.
package story

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Entry is one indexed story: the file itself plus the metadata from its
// sidecar and the derived counts. Index is the entry's stable position in
// the full (unfiltered) entry list.
type Entry struct {
	Index              int
	Title              string
	Tags               map[string]struct{}
	Description        string
	Recap              string
	WordCount          int
	BackstoryWordCount int
	BackstoryPages     int
	File               string
	MetadataFile       string
	LastModified       time.Time
}

// TagList returns the entry's tags sorted for display and serialization.
func (e Entry) TagList() []string {
	tags := make([]string, 0, len(e.Tags))
	for tag := range e.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// HasTag reports whether the entry carries the exact tag.
func (e Entry) HasTag(tag string) bool {
	_, ok := e.Tags[tag]
	return ok
}

// Equal compares two entries field by field.
func (e Entry) Equal(other Entry) bool {
	if e.Index != other.Index || e.Title != other.Title ||
		e.Description != other.Description || e.Recap != other.Recap ||
		e.WordCount != other.WordCount ||
		e.BackstoryWordCount != other.BackstoryWordCount ||
		e.BackstoryPages != other.BackstoryPages ||
		e.File != other.File || e.MetadataFile != other.MetadataFile ||
		!e.LastModified.Equal(other.LastModified) ||
		len(e.Tags) != len(other.Tags) {
		return false
	}
	for tag := range e.Tags {
		if _, ok := other.Tags[tag]; !ok {
			return false
		}
	}
	return true
}

// TagSet builds a tag set from the tag names, dropping empties.
func TagSet(tags ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

// ParseTags splits a comma separated tag list into a set. Tags are
// trimmed of surrounding whitespace; empty ones are dropped.
func ParseTags(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

var wordRe = regexp.MustCompile(`\w[\w']*`)

// TitleFromFilename derives an entry title from a file name: the
// extension is dropped, dashes become spaces, and each word is optionally
// capitalized.
func TitleFromFilename(name string, capitalize bool) string {
	stem := name
	if dot := strings.LastIndex(stem, "."); dot > 0 {
		stem = stem[:dot]
	}
	title := strings.ReplaceAll(stem, "-", " ")
	if capitalize {
		title = wordRe.ReplaceAllStringFunc(title, func(word string) string {
			return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		})
	}
	return title
}
