// Package backstory manages the backstory pages of a story: loose text
// files kept in a NAME.metadir directory next to the story file. Each
// page starts with a one-line JSON header followed by the page body.
// Old revisions of a page are kept alongside it with a .revN suffix.
package backstory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	revisionFile = regexp.MustCompile(`\.rev\d+$`)
	titleWord    = regexp.MustCompile(`\w[\w']*`)
)

// Root returns the backstory directory for a story file.
func Root(storyFile string) string {
	return storyFile + ".metadir"
}

// Page is one backstory page.
type Page struct {
	Title    string
	File     string
	Revision int
}

type header struct {
	Title           string `json:"title"`
	Created         string `json:"created"`
	Revision        int    `json:"revision"`
	RevisionCreated string `json:"revision created"`
}

func newHeader(title string) header {
	now := time.Now().Format(timeLayout)
	return header{Title: title, Created: now, Revision: 0, RevisionCreated: now}
}

// fixTitle makes a page title out of a file name.
func fixTitle(name string) string {
	stem := name
	if dot := strings.LastIndex(stem, "."); dot > 0 {
		stem = stem[:dot]
	}
	title := strings.ReplaceAll(stem, "-", " ")
	return titleWord.ReplaceAllStringFunc(title, func(word string) string {
		return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	})
}

// splitPage separates a page file into its header line and body.
func splitPage(content string) (first, body string) {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		return content[:i], content[i+1:]
	}
	return content, ""
}

func readHeader(path string) (header, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return header{}, "", err
	}
	first, body := splitPage(string(content))
	var h header
	if err := json.Unmarshal([]byte(first), &h); err != nil {
		// No header yet: the whole file is the body and the title comes
		// from the file name.
		h = newHeader(fixTitle(filepath.Base(path)))
		body = string(content)
		if err := writePage(path, h, body); err != nil {
			return header{}, "", err
		}
	}
	return h, body, nil
}

func writePage(path string, h header, body string) error {
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(string(data)+"\n"+body), 0644)
}

// LoadPages reads all pages under the backstory root, skipping revision
// files and repairing pages with missing headers. A missing root is not
// an error: stories without backstory just have no pages.
func LoadPages(root string) ([]Page, error) {
	dirents, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pages []Page
	for _, dirent := range dirents {
		if dirent.IsDir() || revisionFile.MatchString(dirent.Name()) {
			continue
		}
		path := filepath.Join(root, dirent.Name())
		h, _, err := readHeader(path)
		if err != nil {
			continue
		}
		pages = append(pages, Page{Title: h.Title, File: path, Revision: h.Revision})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].File < pages[j].File })
	return pages, nil
}

// AddPage creates a new page file with the given title and an empty body.
func AddPage(root, title, fileName string) (Page, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return Page{}, err
	}
	path := filepath.Join(root, fileName)
	if _, err := os.Stat(path); err == nil {
		return Page{}, fmt.Errorf("page already exists: %s", fileName)
	}
	h := newHeader(title)
	if err := writePage(path, h, ""); err != nil {
		return Page{}, err
	}
	return Page{Title: title, File: path}, nil
}

// CreateDefaultPages creates any configured default pages that don't
// exist yet. The defaults map file names to page titles.
func CreateDefaultPages(root string, defaults map[string]string) error {
	for fileName, title := range defaults {
		path := filepath.Join(root, fileName)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if _, err := AddPage(root, title, fileName); err != nil {
			return err
		}
	}
	return nil
}

// RenamePage rewrites the page header with a new title.
func RenamePage(page Page, newTitle string) error {
	h, body, err := readHeader(page.File)
	if err != nil {
		return err
	}
	h.Title = newTitle
	return writePage(page.File, h, body)
}

// RemovePage moves the page aside instead of deleting it, so a slip of
// the keyboard can be undone by hand.
func RemovePage(page Page) error {
	return os.Rename(page.File, page.File+".deleted")
}

// SaveRevision snapshots the current page into a .revN file and bumps the
// revision counter in the live page's header.
func SaveRevision(page Page) (int, error) {
	h, body, err := readHeader(page.File)
	if err != nil {
		return 0, err
	}
	content, err := os.ReadFile(page.File)
	if err != nil {
		return 0, err
	}
	snapshot := fmt.Sprintf("%s.rev%d", page.File, h.Revision)
	if err := os.WriteFile(snapshot, content, 0644); err != nil {
		return 0, err
	}
	h.Revision++
	h.RevisionCreated = time.Now().Format(timeLayout)
	if err := writePage(page.File, h, body); err != nil {
		return 0, err
	}
	return h.Revision, nil
}

// CountData sums word and page counts over the backstory pages,
// excluding revision files. The word count covers page bodies only, not
// the header lines. Unreadable or headerless files are skipped, matching
// how the index treats them.
func CountData(root string) (wordCount, pages int) {
	// A missing or unreadable metadir simply means no backstory.
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || revisionFile.MatchString(d.Name()) {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		i := strings.IndexByte(string(content), '\n')
		if i < 0 {
			return nil
		}
		wordCount += len(strings.Fields(string(content[i+1:])))
		pages++
		return nil
	})
	return wordCount, pages
}
