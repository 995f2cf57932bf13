package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sigridh/skald/internal/backstory"
	"github.com/sigridh/skald/internal/config"
	"github.com/sigridh/skald/internal/story"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
)

type styleSet struct {
	numberStyle    lipgloss.Style
	titleStyle     lipgloss.Style
	dateStyle      lipgloss.Style
	wordCountStyle lipgloss.Style
	descStyle      lipgloss.Style
	emptyDescStyle lipgloss.Style
	recapStyle     lipgloss.Style
	tagStyle       lipgloss.Style
	errorStyle     lipgloss.Style
	statusStyle    lipgloss.Style
	headerStyle    lipgloss.Style
}

var styles styleSet

func initializeStyles(cfg *config.Config) {
	styles = styleSet{
		numberStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Colors.NumberColor)),
		titleStyle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cfg.Colors.TitleColor)),
		dateStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Colors.DateColor)),
		wordCountStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Colors.WordCountColor)),
		descStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Colors.DescColor)),
		emptyDescStyle: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(cfg.Colors.EmptyDescColor)),
		recapStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Colors.RecapColor)),
		tagStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cfg.Colors.TagColor)).
			Background(lipgloss.Color(cfg.Colors.TagBgColor)).
			Padding(0, 1),
		errorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Colors.ErrorColor)),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Colors.StatusColor)),
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cfg.Colors.SelectorColor)),
	}
}

type indexModel struct {
	cfg      *config.Config
	entries  []story.Entry
	visible  []story.Entry
	filters  story.Filters
	sortBy   story.SortBy
	undo     story.UndoStack
	repo     *story.Repo
	watcher  *fsnotify.Watcher
	input    textinput.Model
	history  []string
	histPos  int
	output   []string
	status   string
	isError  bool
	scroll   int
	width    int
	height   int
	quitting bool
}

type fileChangedMsg struct{}

type editorFinishedMsg struct{ err error }

func waitForFileChange(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		if watcher == nil {
			return nil
		}
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&fsnotify.Write == fsnotify.Write ||
					event.Op&fsnotify.Create == fsnotify.Create ||
					event.Op&fsnotify.Remove == fsnotify.Remove {
					return fileChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Printf("Watcher error: %v", err)
			}
		}
	}
}

func setupWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	updateWatcher(watcher, root)
	return watcher, nil
}

// updateWatcher watches the story root and every subdirectory except
// backstory metadirs and hidden directories, so new stories anywhere in
// the tree trigger a re-index.
func updateWatcher(watcher *fsnotify.Watcher, root string) {
	if watcher == nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".metadir")) {
			return fs.SkipDir
		}
		_ = watcher.Add(path)
		return nil
	})
}

func (m indexModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForFileChange(m.watcher))
}

func (m indexModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.input.SetValue("")
			m.output = nil
			m.status = ""
			m.isError = false
			return m, nil
		case "up":
			if len(m.history) > 0 && m.histPos > 0 {
				m.histPos--
				m.input.SetValue(m.history[m.histPos])
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			if m.histPos < len(m.history)-1 {
				m.histPos++
				m.input.SetValue(m.history[m.histPos])
				m.input.CursorEnd()
			} else {
				m.histPos = len(m.history)
				m.input.SetValue("")
			}
			return m, nil
		case "pgup", "ctrl+u":
			m.scroll -= m.listHeight() / 2
			if m.scroll < 0 {
				m.scroll = 0
			}
			return m, nil
		case "pgdown", "ctrl+d":
			m.scroll += m.listHeight() / 2
			m.clampScroll()
			return m, nil
		case "enter":
			// Trailing spaces stay: "ft " filters for untagged entries.
			command := strings.TrimLeft(m.input.Value(), " ")
			m.input.SetValue("")
			if strings.TrimSpace(command) == "" {
				return m, nil
			}
			if len(m.history) == 0 || m.history[len(m.history)-1] != command {
				m.history = append(m.history, command)
			}
			m.histPos = len(m.history)
			return m.runCommand(command)
		}
	case fileChangedMsg:
		m.reindex()
		updateWatcher(m.watcher, m.cfg.Path)
		return m, waitForFileChange(m.watcher)
	case editorFinishedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("editor: %v", msg.err))
		}
		m.reindex()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.clampScroll()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *indexModel) setError(text string) {
	m.status = text
	m.isError = true
}

func (m *indexModel) setStatus(text string) {
	m.status = text
	m.isError = false
}

// reindex reloads the entries from disk and regenerates the visible list
// with the current filters and sort untouched.
func (m *indexModel) reindex() {
	entries, err := story.IndexStories(m.cfg.Path)
	if err != nil {
		m.setError(fmt.Sprintf("index: %v", err))
		return
	}
	m.entries = entries
	m.regenerate()
}

func (m *indexModel) regenerate() {
	visible, err := story.GenerateVisible(m.entries, m.filters, m.sortBy, m.cfg.TagMacros)
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.visible = visible
	m.clampScroll()
}

func (m *indexModel) clampScroll() {
	max := len(m.visible)*2 - m.listHeight()
	if max < 0 {
		max = 0
	}
	if m.scroll > max {
		m.scroll = max
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m indexModel) listHeight() int {
	// Header, status line, command line, and whatever output is showing.
	reserved := 4 + len(m.output)
	h := m.height - reserved
	if h < 4 {
		h = 4
	}
	return h
}

// entryByNumber resolves a list number typed in a command to the entry it
// names. Numbers are positions in the full entry list, as displayed.
func (m indexModel) entryByNumber(arg string) (story.Entry, error) {
	index, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return story.Entry{}, fmt.Errorf("not an entry number: %q", strings.TrimSpace(arg))
	}
	if index < 0 || index >= len(m.entries) {
		return story.Entry{}, fmt.Errorf("entry %d doesn't exist", index)
	}
	return m.entries[index], nil
}

func (m indexModel) runCommand(command string) (tea.Model, tea.Cmd) {
	m.output = nil
	m.status = ""
	m.isError = false

	// A bare number opens that entry in the editor.
	if _, err := strconv.Atoi(strings.TrimSpace(command)); err == nil {
		return m.openEntry(command)
	}

	switch command[0] {
	case 'f':
		m.commandFilter(command[1:])
		return m, nil
	case 's':
		m.commandSort(command[1:])
		return m, nil
	case 'e':
		m.commandEdit(command[1:])
		return m, nil
	case 't':
		m.commandTags(command[1:])
		return m, nil
	case 'n':
		m.commandNew(command[1:])
		return m, nil
	case 'c':
		m.commandCount(command[1:])
		return m, nil
	case 'x':
		return m.openEntry(command[1:])
	case 'v':
		m.commandView(command[1:])
		return m, nil
	case 'b':
		m.commandBackstory(command[1:])
		return m, nil
	case 'h':
		m.output = helpLines()
		return m, nil
	case 'q':
		m.quitting = true
		return m, tea.Quit
	}
	m.setError(fmt.Sprintf("no such command: %q", command))
	return m, nil
}

// filterField maps a filter key letter to the field it controls.
func (m *indexModel) filterField(key byte) (**string, string) {
	switch key {
	case 'n':
		return &m.filters.Title, "title"
	case 'd':
		return &m.filters.Description, "description"
	case 'r':
		return &m.filters.Recap, "recap"
	case 't':
		return &m.filters.Tags, "tags"
	case 'c':
		return &m.filters.WordCount, "wordcount"
	case 'b':
		return &m.filters.BackstoryWordCount, "backstorywordcount"
	case 'p':
		return &m.filters.BackstoryPages, "backstorypages"
	}
	return nil, ""
}

func (m *indexModel) commandFilter(arg string) {
	if arg == "" {
		active := m.filters.Active()
		if len(active) == 0 {
			m.setStatus("no active filters")
			return
		}
		m.output = append([]string{"Active filters:"}, active...)
		return
	}
	if arg == "-" {
		m.filters = story.Filters{}
		m.regenerate()
		m.setStatus("filters reset")
		return
	}

	field, name := m.filterField(arg[0])
	if field == nil {
		m.setError(fmt.Sprintf("no such filter: %q", arg[0]))
		return
	}
	rest := arg[1:]

	switch {
	case rest == "-":
		*field = nil
		m.regenerate()
		m.setStatus(fmt.Sprintf("%s filter reset", name))
	case rest == "":
		// Recall the current payload into the prompt for editing.
		if *field == nil {
			m.setStatus(fmt.Sprintf("no %s filter active", name))
			return
		}
		m.input.SetValue(fmt.Sprintf("f%c %s", arg[0], **field))
		m.input.CursorEnd()
	case rest[0] == ' ':
		payload := strings.TrimSpace(rest)
		old := *field
		*field = &payload
		visible, err := story.GenerateVisible(m.entries, m.filters, m.sortBy, m.cfg.TagMacros)
		if err != nil {
			// A filter that doesn't compile leaves the old state alone.
			*field = old
			m.setError(err.Error())
			return
		}
		m.visible = visible
		m.clampScroll()
		m.setStatus(fmt.Sprintf("%s filter: %d of %d entries", name, len(m.visible), len(m.entries)))
	default:
		m.setError(fmt.Sprintf("bad filter command: f%s", arg))
	}
}

func (m *indexModel) commandSort(arg string) {
	if arg == "" {
		m.setStatus("sorted by " + m.sortBy.String())
		return
	}
	keys := map[byte]string{
		'n': "title",
		'c': "wordcount",
		'b': "backstorywordcount",
		'p': "backstorypages",
		'm': "lastmodified",
	}
	key, ok := keys[arg[0]]
	if !ok {
		m.setError(fmt.Sprintf("no such sort key: %q", arg[0]))
		return
	}
	descending := m.sortBy.Descending
	if len(arg) > 1 {
		switch arg[1] {
		case '<':
			descending = false
		case '>':
			descending = true
		case '!':
			descending = !descending
		default:
			m.setError(fmt.Sprintf("bad sort order: %q", arg[1]))
			return
		}
	}
	m.sortBy = story.SortBy{Key: key, Descending: descending}
	m.regenerate()
	m.setStatus("sorted by " + m.sortBy.String())
}

var editAttrs = map[byte]string{
	'n': "title",
	'd': "description",
	'r': "recap",
	't': "tags",
}

func (m *indexModel) commandEdit(arg string) {
	if arg == "u" {
		batch := m.undo.Pop()
		if batch == nil {
			m.setStatus("nothing to undo")
			return
		}
		m.entries = story.Undo(m.entries, batch)
		m.persist(batch, "undo edit")
		m.regenerate()
		m.setStatus(fmt.Sprintf("undid changes to %d entries", len(batch)))
		return
	}
	if strings.HasPrefix(arg, "t*") {
		m.commandReplaceTags(strings.TrimSpace(arg[2:]))
		return
	}
	if arg == "" {
		m.setError("edit what? (en/ed/er/et + entry number)")
		return
	}
	attribute, ok := editAttrs[arg[0]]
	if !ok {
		m.setError(fmt.Sprintf("no such attribute: %q", arg[0]))
		return
	}
	numberPart, value, hasValue := strings.Cut(arg[1:], " ")
	entry, err := m.entryByNumber(numberPart)
	if err != nil {
		m.setError(err.Error())
		return
	}
	if !hasValue {
		// Recall the current value for editing.
		var current string
		switch attribute {
		case "title":
			current = entry.Title
		case "description":
			current = entry.Description
		case "recap":
			current = entry.Recap
		case "tags":
			current = strings.Join(entry.TagList(), ", ")
		}
		m.input.SetValue(fmt.Sprintf("e%c%d %s", arg[0], entry.Index, current))
		m.input.CursorEnd()
		return
	}
	updated, err := story.EditEntry(m.entries, entry.Index, attribute, value)
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.applyEdit(updated, fmt.Sprintf("edit %s of %q", attribute, entry.Title))
}

func (m *indexModel) commandReplaceTags(arg string) {
	oldTag, newTag, found := strings.Cut(arg, ",")
	if !found {
		m.setError("replace tags: et* old,new")
		return
	}
	oldTag = strings.TrimSpace(oldTag)
	newTag = strings.TrimSpace(newTag)
	updated, err := story.ReplaceTags(oldTag, newTag, m.entries, m.visible)
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.applyEdit(updated, fmt.Sprintf("replace tag %q with %q", oldTag, newTag))
}

// applyEdit commits an edited entry list: diff against the old one, stack
// the old versions for undo, write the changed sidecars, and refresh.
func (m *indexModel) applyEdit(updated []story.Entry, message string) {
	changedOld, changedNew := story.GetDiff(m.entries, updated)
	if len(changedNew) == 0 {
		m.setStatus("no changes")
		return
	}
	m.undo.Push(changedOld)
	m.entries = updated
	m.persist(changedNew, message)
	m.regenerate()
	m.setStatus(fmt.Sprintf("updated %d entries", len(changedNew)))
}

// persist writes the changed entries' sidecars and, when the story root
// is a git repository, commits them.
func (m *indexModel) persist(changed []story.Entry, message string) {
	if err := story.WriteMetadata(changed); err != nil {
		m.setError(fmt.Sprintf("write metadata: %v", err))
		return
	}
	if err := m.repo.CommitMetadata(message, changed); err != nil {
		log.Printf("git commit failed: %v", err)
	}
}

func (m *indexModel) commandTags(arg string) {
	if arg == "@" {
		if len(m.cfg.TagMacros) == 0 {
			m.setStatus("no tag macros defined")
			return
		}
		names := make([]string, 0, len(m.cfg.TagMacros))
		for name := range m.cfg.TagMacros {
			names = append(names, name)
		}
		sort.Strings(names)
		lines := []string{"Tag macros:"}
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("  @%s = %s", name, m.cfg.TagMacros[name]))
		}
		m.output = lines
		return
	}

	tags := story.AllTags(m.entries)
	alphabetic := false
	needle := ""
	switch {
	case arg == "!":
		alphabetic = true
	case strings.HasPrefix(arg, " "):
		needle = strings.ToLower(strings.TrimSpace(arg))
	case arg != "":
		m.setError(fmt.Sprintf("bad tag command: t%s", arg))
		return
	}
	if alphabetic {
		sort.Slice(tags, func(i, j int) bool { return tags[i].Tag < tags[j].Tag })
	}
	lines := []string{"Tags:"}
	for _, tc := range tags {
		if needle != "" && !strings.Contains(strings.ToLower(tc.Tag), needle) {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %4d %s", tc.Count, tc.Tag))
	}
	if len(lines) == 1 {
		m.setStatus("no tags")
		return
	}
	m.output = lines
}

// commandNew creates a story: n (tag1, tag2) relative/path.txt
func (m *indexModel) commandNew(arg string) {
	arg = strings.TrimSpace(arg)
	var tags []string
	if strings.HasPrefix(arg, "(") {
		end := strings.Index(arg, ")")
		if end < 0 {
			m.setError("unclosed tag list")
			return
		}
		tags = sortedTags(story.ParseTags(arg[1:end]))
		arg = strings.TrimSpace(arg[end+1:])
	}
	if arg == "" {
		m.setError("new entry needs a path")
		return
	}
	_, _, existed, err := story.NewEntry(m.cfg.Path, arg, tags, m.cfg.CapitalizeTitles)
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.reindex()
	if existed {
		m.setStatus(fmt.Sprintf("added metadata for existing file %s", arg))
	} else {
		m.setStatus(fmt.Sprintf("created %s", arg))
	}
}

func sortedTags(set map[string]struct{}) []string {
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (m *indexModel) commandCount(arg string) {
	var words, backstoryWords, pages int
	for _, entry := range m.visible {
		words += entry.WordCount
		backstoryWords += entry.BackstoryWordCount
		pages += entry.BackstoryPages
	}
	switch arg {
	case "":
		m.setStatus(fmt.Sprintf("%d entries, %d words, %d backstory words over %d pages",
			len(m.visible), words, backstoryWords, pages))
	case "c":
		m.setStatus(fmt.Sprintf("%d words in %d entries", words, len(m.visible)))
	case "b":
		m.setStatus(fmt.Sprintf("%d backstory words in %d entries", backstoryWords, len(m.visible)))
	case "p":
		m.setStatus(fmt.Sprintf("%d backstory pages in %d entries", pages, len(m.visible)))
	default:
		m.setError(fmt.Sprintf("bad count command: c%s", arg))
	}
}

func (m indexModel) openEntry(arg string) (tea.Model, tea.Cmd) {
	entry, err := m.entryByNumber(arg)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	return m, openEditorCmd(m.cfg.Editor, entry.File)
}

func openEditorCmd(editor, path string) tea.Cmd {
	if strings.HasPrefix(editor, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			editor = filepath.Join(home, editor[2:])
		}
	}
	parts := strings.Fields(editor)
	args := append(parts[1:], path)
	c := exec.Command(parts[0], args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (m *indexModel) commandView(arg string) {
	entry, err := m.entryByNumber(arg)
	if err != nil {
		m.setError(err.Error())
		return
	}
	content, err := os.ReadFile(entry.File)
	if err != nil {
		m.setError(err.Error())
		return
	}
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	out, err := r.Render(string(content))
	if err != nil {
		m.setError(err.Error())
		return
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	limit := m.listHeight()
	if len(lines) > limit {
		lines = append(lines[:limit], "…")
	}
	m.output = lines
}

func (m *indexModel) commandBackstory(arg string) {
	entry, err := m.entryByNumber(arg)
	if err != nil {
		m.setError(err.Error())
		return
	}
	root := backstory.Root(entry.File)
	// First open of an entry's backstory seeds the configured default
	// pages.
	if _, err := os.Stat(root); os.IsNotExist(err) && len(m.cfg.BackstoryDefaultPages) > 0 {
		if err := backstory.CreateDefaultPages(root, m.cfg.BackstoryDefaultPages); err != nil {
			m.setError(err.Error())
			return
		}
	}
	pages, err := backstory.LoadPages(root)
	if err != nil {
		m.setError(err.Error())
		return
	}
	if len(pages) == 0 {
		m.setStatus(fmt.Sprintf("%q has no backstory pages", entry.Title))
		return
	}
	lines := []string{fmt.Sprintf("Backstory of %q:", entry.Title)}
	for _, page := range pages {
		lines = append(lines, fmt.Sprintf("  %s (rev %d) %s", page.Title, page.Revision, filepath.Base(page.File)))
	}
	m.output = lines
}

func helpLines() []string {
	return []string{
		"Commands:",
		"  f                list active filters        f-     reset all filters",
		"  fn/fd/fr TEXT    filter title/desc/recap    f<k>-  reset one filter",
		"  ft EXPR          filter tags: a, b | -(c), wildcards, @macros",
		"  fc/fb/fp >N<M    filter wordcount/backstory words/pages (k = 000)",
		"  s[ncbpm][<>!]    sort by title/words/backstory words/pages/modified",
		"  e[ndrt]N TEXT    edit entry N   e[ndrt]N recalls   eu undoes",
		"  et* OLD,NEW      replace tag across visible entries",
		"  t / t! / t TEXT  tags by count / alphabetic / matching TEXT",
		"  t@               list tag macros",
		"  n (a, b) PATH    new story with tags a, b",
		"  c[cbp]           word/backstory/page counts over visible entries",
		"  x N  or just N   open entry N in the editor",
		"  v N              preview entry N           b N    list backstory pages",
		"  h help    q quit    esc clears    pgup/pgdn scroll    up/down history",
	}
}

func formatTags(entry story.Entry, cfg *config.Config) string {
	var parts []string
	for _, tag := range entry.TagList() {
		style := styles.tagStyle
		if color, ok := cfg.TagColors[tag]; ok {
			style = style.Background(lipgloss.Color(color))
		}
		parts = append(parts, style.Render(tag))
	}
	return strings.Join(parts, " ")
}

func (m indexModel) renderEntry(entry story.Entry) []string {
	length := m.cfg.RenderLengthTemplate(entry.WordCount, entry.BackstoryWordCount, entry.BackstoryPages)
	first := fmt.Sprintf("%s %s %s %s",
		styles.numberStyle.Render(fmt.Sprintf("%3d.", entry.Index)),
		styles.titleStyle.Render(entry.Title),
		styles.wordCountStyle.Render(length),
		styles.dateStyle.Render(entry.LastModified.Format("2006-01-02")),
	)
	if len(entry.Tags) > 0 {
		first += " " + formatTags(entry, m.cfg)
	}
	second := "     "
	if entry.Description == "" {
		second += styles.emptyDescStyle.Render("[no description]")
	} else {
		second += styles.descStyle.Render(entry.Description)
	}
	if entry.Recap != "" {
		second += styles.recapStyle.Render(" » " + entry.Recap)
	}
	return []string{first, second}
}

func (m indexModel) View() string {
	if m.quitting {
		return ""
	}

	header := styles.headerStyle.Render(
		fmt.Sprintf(" %s | %d/%d entries ", m.cfg.Title, len(m.visible), len(m.entries)))
	if active := m.filters.Active(); len(active) > 0 {
		header += styles.statusStyle.Render("[" + strings.Join(active, "; ") + "]")
	}

	var listLines []string
	for _, entry := range m.visible {
		listLines = append(listLines, m.renderEntry(entry)...)
	}
	top := m.scroll
	if top > len(listLines) {
		top = len(listLines)
	}
	bottom := top + m.listHeight()
	if bottom > len(listLines) {
		bottom = len(listLines)
	}
	listLines = listLines[top:bottom]

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(strings.Join(listLines, "\n"))
	b.WriteString("\n")
	if len(m.output) > 0 {
		b.WriteString(strings.Join(m.output, "\n"))
		b.WriteString("\n")
	}
	if m.status != "" {
		if m.isError {
			b.WriteString(styles.errorStyle.Render(m.status))
		} else {
			b.WriteString(styles.statusStyle.Render(m.status))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	initializeStyles(cfg)

	entries, err := story.IndexStories(cfg.Path)
	if err != nil {
		log.Fatal(err)
	}

	watcher, err := setupWatcher(cfg.Path)
	if err != nil {
		log.Printf("Warning: could not create file watcher: %v", err)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "command (h for help)"
	ti.Focus()

	sortBy := story.SortBy{Key: "title"}
	m := indexModel{
		cfg:     cfg,
		entries: entries,
		visible: story.Sort(entries, sortBy),
		sortBy:  sortBy,
		repo:    story.OpenRepo(cfg.Path),
		watcher: watcher,
		input:   ti,
		height:  24,
		width:   80,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
