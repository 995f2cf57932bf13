package story

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sigridh/skald/internal/tagexpr"
)

// Filters holds the active filter payloads. A nil field means no filter
// on that attribute; an empty string means "attribute is empty".
type Filters struct {
	Title              *string
	Description        *string
	Recap              *string
	Tags               *string
	WordCount          *string
	BackstoryWordCount *string
	BackstoryPages     *string
}

// Active describes the active filters, one "name: payload" per filter.
func (f Filters) Active() []string {
	var active []string
	for _, item := range []struct {
		name    string
		payload *string
	}{
		{"title", f.Title},
		{"description", f.Description},
		{"recap", f.Recap},
		{"tags", f.Tags},
		{"wordcount", f.WordCount},
		{"backstorywordcount", f.BackstoryWordCount},
		{"backstorypages", f.BackstoryPages},
	} {
		if item.payload != nil {
			active = append(active, fmt.Sprintf("%s: %s", item.name, *item.payload))
		}
	}
	return active
}

// Apply returns the entries that pass every active filter, in their
// original order. Compiling a bad tag filter is the only way this fails.
func (f Filters) Apply(entries []Entry, macros map[string]string) ([]Entry, error) {
	result := entries
	if f.Title != nil {
		result = filterText(*f.Title, result, func(e Entry) string { return e.Title })
	}
	if f.Description != nil {
		result = filterText(*f.Description, result, func(e Entry) string { return e.Description })
	}
	if f.Recap != nil {
		result = filterText(*f.Recap, result, func(e Entry) string { return e.Recap })
	}
	if f.Tags != nil {
		filtered, err := filterTags(*f.Tags, result, macros)
		if err != nil {
			return nil, err
		}
		result = filtered
	}
	if f.WordCount != nil {
		result = filterNumber(*f.WordCount, result, func(e Entry) int { return e.WordCount })
	}
	if f.BackstoryWordCount != nil {
		result = filterNumber(*f.BackstoryWordCount, result, func(e Entry) int { return e.BackstoryWordCount })
	}
	if f.BackstoryPages != nil {
		result = filterNumber(*f.BackstoryPages, result, func(e Entry) int { return e.BackstoryPages })
	}
	return result, nil
}

// filterText keeps entries whose attribute contains the payload, case
// insensitively. An empty payload keeps entries with an empty attribute.
func filterText(payload string, entries []Entry, attr func(Entry) string) []Entry {
	var result []Entry
	for _, entry := range entries {
		value := attr(entry)
		if payload == "" {
			if value == "" {
				result = append(result, entry)
			}
		} else if strings.Contains(strings.ToLower(value), strings.ToLower(payload)) {
			result = append(result, entry)
		}
	}
	return result
}

var numberExpr = regexp.MustCompile(`([<>]=?)(\d+k?)`)

// filterNumber keeps entries whose attribute satisfies every comparison
// in the payload. Comparisons look like >900 or <=50k and can be
// concatenated without delimiters; a k suffix stands for 000.
func filterNumber(payload string, entries []Entry, attr func(Entry) int) []Entry {
	type comparison struct {
		op    string
		limit int
	}
	var comparisons []comparison
	for _, m := range numberExpr.FindAllStringSubmatch(payload, -1) {
		limit, err := strconv.Atoi(strings.ReplaceAll(m[2], "k", "000"))
		if err != nil {
			continue
		}
		comparisons = append(comparisons, comparison{op: m[1], limit: limit})
	}
	var result []Entry
	for _, entry := range entries {
		value := attr(entry)
		ok := true
		for _, c := range comparisons {
			switch c.op {
			case "<":
				ok = value < c.limit
			case ">":
				ok = value > c.limit
			case "<=":
				ok = value <= c.limit
			case ">=":
				ok = value >= c.limit
			}
			if !ok {
				break
			}
		}
		if ok {
			result = append(result, entry)
		}
	}
	return result
}

// filterTags keeps entries whose tag set matches the compiled filter. An
// empty payload keeps entries with no tags at all.
func filterTags(payload string, entries []Entry, macros map[string]string) ([]Entry, error) {
	if payload == "" {
		var result []Entry
		for _, entry := range entries {
			if len(entry.Tags) == 0 {
				result = append(result, entry)
			}
		}
		return result, nil
	}
	filter, err := tagexpr.Compile(payload, macros)
	if err != nil {
		return nil, err
	}
	var result []Entry
	for _, entry := range entries {
		if filter.Match(entry.Tags) {
			result = append(result, entry)
		}
	}
	return result, nil
}

// SortBy names a sort key and direction for the entry list.
type SortBy struct {
	Key        string
	Descending bool
}

func (s SortBy) String() string {
	order := "ascending"
	if s.Descending {
		order = "descending"
	}
	return fmt.Sprintf("%s, %s", s.Key, order)
}

// Sort orders entries by the sort key. Unknown keys leave the order
// untouched.
func Sort(entries []Entry, by SortBy) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	var less func(a, b Entry) bool
	switch by.Key {
	case "title":
		less = func(a, b Entry) bool { return a.Title < b.Title }
	case "wordcount":
		less = func(a, b Entry) bool { return a.WordCount < b.WordCount }
	case "backstorywordcount":
		less = func(a, b Entry) bool { return a.BackstoryWordCount < b.BackstoryWordCount }
	case "backstorypages":
		less = func(a, b Entry) bool { return a.BackstoryPages < b.BackstoryPages }
	case "lastmodified":
		less = func(a, b Entry) bool { return a.LastModified.Before(b.LastModified) }
	default:
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if by.Descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// GenerateVisible filters and sorts the full entry list into the list the
// index view shows.
func GenerateVisible(entries []Entry, filters Filters, by SortBy, macros map[string]string) ([]Entry, error) {
	filtered, err := filters.Apply(entries, macros)
	if err != nil {
		return nil, err
	}
	return Sort(filtered, by), nil
}
