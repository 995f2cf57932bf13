package story

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sigridh/skald/internal/backstory"
	"github.com/sigridh/skald/internal/parallel"
)

// wordCountCache remembers word counts per file keyed by modification
// time, so unchanged stories aren't re-read on every index run.
type wordCountCache struct {
	path    string
	entries map[string]cachedCount
	dirty   bool
}

type cachedCount struct {
	Modified  int64 `json:"modified"`
	WordCount int   `json:"wordcount"`
}

func loadWordCountCache() *wordCountCache {
	cache := &wordCountCache{entries: make(map[string]cachedCount)}
	home, err := os.UserHomeDir()
	if err != nil {
		return cache
	}
	cache.path = filepath.Join(home, ".cache", "skald", "wordcounts.json")
	data, err := os.ReadFile(cache.path)
	if err != nil {
		return cache
	}
	// A corrupt cache is just discarded and rebuilt.
	_ = json.Unmarshal(data, &cache.entries)
	return cache
}

func (c *wordCountCache) get(path string, modified int64) (int, bool) {
	cached, ok := c.entries[path]
	if !ok || cached.Modified != modified {
		return 0, false
	}
	return cached.WordCount, true
}

func (c *wordCountCache) put(path string, modified int64, count int) {
	c.entries[path] = cachedCount{Modified: modified, WordCount: count}
	c.dirty = true
}

func (c *wordCountCache) save() {
	if !c.dirty || c.path == "" {
		return
	}
	data, err := json.Marshal(c.entries)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return
	}
	_ = os.WriteFile(c.path, data, 0644)
}

// countWords counts whitespace separated words in a file.
func countWords(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return len(strings.Fields(string(content))), nil
}

// IndexStories walks the story root and builds an entry per file that has
// a metadata sidecar. Word counting for changed files fans out over a
// worker pool; counts for untouched files come from the cache.
func IndexStories(root string) ([]Entry, error) {
	type candidate struct {
		file     string
		metaFile string
		modified int64
	}
	var candidates []candidate
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Backstory pages live inside metadirs and are counted
			// separately.
			if strings.HasSuffix(d.Name(), ".metadir") {
				return filepath.SkipDir
			}
			return nil
		}
		metaFile := MetadataPath(path)
		if _, err := os.Stat(metaFile); err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		candidates = append(candidates, candidate{
			file:     path,
			metaFile: metaFile,
			modified: info.ModTime().UnixNano(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache := loadWordCountCache()
	var uncached []candidate
	counts := make(map[string]int, len(candidates))
	for _, c := range candidates {
		if count, ok := cache.get(c.file, c.modified); ok {
			counts[c.file] = count
		} else {
			uncached = append(uncached, c)
		}
	}
	type counted struct {
		file  string
		count int
	}
	for _, result := range parallel.Map(uncached, func(c candidate) (counted, bool) {
		count, err := countWords(c.file)
		if err != nil {
			return counted{}, false
		}
		return counted{file: c.file, count: count}, true
	}) {
		counts[result.file] = result.count
	}
	for _, c := range uncached {
		if count, ok := counts[c.file]; ok {
			cache.put(c.file, c.modified, count)
		}
	}
	cache.save()

	entries := make([]Entry, 0, len(candidates))
	for _, c := range candidates {
		meta, err := ReadMetadata(c.metaFile)
		if err != nil {
			return nil, err
		}
		// A story file that couldn't be read still gets listed, with a
		// zero count.
		count := counts[c.file]
		backstoryWords, backstoryPages := backstory.CountData(backstory.Root(c.file))
		entries = append(entries, Entry{
			Index:              len(entries),
			Title:              meta.Title,
			Tags:               TagSet(meta.Tags...),
			Description:        meta.Description,
			Recap:              meta.Recap,
			WordCount:          count,
			BackstoryWordCount: backstoryWords,
			BackstoryPages:     backstoryPages,
			File:               c.file,
			MetadataFile:       c.metaFile,
			LastModified:       time.Unix(0, c.modified),
		})
	}
	return entries, nil
}

// AllTags returns every tag in use and how many entries carry it, most
// used first, ties broken alphabetically.
func AllTags(entries []Entry) []TagCount {
	usage := make(map[string]int)
	for _, entry := range entries {
		for tag := range entry.Tags {
			usage[tag]++
		}
	}
	tags := make([]TagCount, 0, len(usage))
	for tag, count := range usage {
		tags = append(tags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	return tags
}

// TagCount is a tag and the number of entries carrying it.
type TagCount struct {
	Tag   string
	Count int
}
