// Package tui implements the interactive grouped task browser.
package tui

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/tasklens/internal/config"
	"github.com/twiced-technology-gmbh/tasklens/internal/output"
	"github.com/twiced-technology-gmbh/tasklens/internal/state"
	"github.com/twiced-technology-gmbh/tasklens/internal/task"
	"github.com/twiced-technology-gmbh/tasklens/internal/view"
)

// mode is the current screen state.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeDetail
)

// Layout constants.
const (
	headerChrome = 2 // title line + blank line
	footerChrome = 2 // blank line + status bar
	errorChrome  = 1
	indentWidth  = 2
	persistWait  = 2 * time.Second
)

type keyMap struct {
	Up, Down, Top, Bottom key.Binding
	Toggle, Open, Back    key.Binding
	Group, NextView       key.Binding
	PrevView, Search      key.Binding
	Reload, Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Top:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Group:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group")),
		NextView: key.NewBinding(key.WithKeys("]", "tab"), key.WithHelp("]", "next view")),
		PrevView: key.NewBinding(key.WithKeys("[", "shift+tab"), key.WithHelp("[", "prev view")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Toggle, k.Open, k.Group, k.NextView, k.Search, k.Quit}
}

// row is one visible line of the browser: a group header or a task.
type row struct {
	group    *view.Group // nil for task rows
	task     *task.Task
	depth    int
	expanded bool
}

// Browser is the top-level bubbletea model.
type Browser struct {
	cfg    *config.Config
	store  *state.Store
	st     *state.State
	viewID string
	dim    view.Dimension
	tasks  []*task.Task
	result view.Result
	rows   []row
	cursor int
	offset int
	mode   mode
	detail *task.Task
	query  textinput.Model
	keys   keyMap
	width  int
	height int
	err    error
	now    func() time.Time
}

// NewBrowser creates a browser for a view. An empty viewID selects the
// configured default view.
func NewBrowser(cfg *config.Config, viewID string) *Browser {
	if viewID == "" {
		viewID = cfg.DefaultView
	}
	if viewID == "" {
		viewID = config.DefaultViewID
	}

	q := textinput.New()
	q.Prompt = "/"
	q.Placeholder = "filter by text"
	q.CharLimit = 200 //nolint:mnd // generous search length

	b := &Browser{
		cfg:    cfg,
		store:  state.NewStore(cfg.Dir()),
		viewID: viewID,
		query:  q,
		keys:   defaultKeyMap(),
		now:    time.Now,
	}
	b.loadState()
	b.loadTasks()
	return b
}

// SetNow overrides the clock used for date buckets (for testing).
func (b *Browser) SetNow(fn func() time.Time) {
	b.now = fn
	b.rebuild()
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.reloadConfig()
		b.loadState()
		b.loadTasks()
		return b, nil
	case stateMsg:
		b.st = msg.st
		return b, nil
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Browser) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	if b.mode == modeDetail && b.detail != nil {
		return b.viewDetail()
	}
	return b.viewList()
}

// WatchPaths returns the files whose changes should reload the browser.
func (b *Browser) WatchPaths() []string {
	return []string{b.cfg.SnapshotPath(), b.cfg.ConfigPath()}
}

// Dimension returns the active grouping dimension.
func (b *Browser) Dimension() view.Dimension {
	return b.dim
}

// ViewID returns the active view.
func (b *Browser) ViewID() string {
	return b.viewID
}

// Groups returns the groups currently displayed.
func (b *Browser) Groups() []view.Group {
	return b.result.Groups
}

func (b *Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return b, tea.Quit
	}
	switch b.mode {
	case modeSearch:
		return b.handleSearchKey(msg)
	case modeDetail:
		if key.Matches(msg, b.keys.Back, b.keys.Open, b.keys.Quit) {
			b.mode = modeBrowse
			b.detail = nil
		}
		return b, nil
	default:
		return b.handleBrowseKey(msg)
	}
}

func (b *Browser) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Back):
		if b.query.Value() != "" {
			b.query.SetValue("")
			b.rebuild()
			return b, nil
		}
		return b, tea.Quit
	case key.Matches(msg, b.keys.Down):
		b.moveCursor(1)
	case key.Matches(msg, b.keys.Up):
		b.moveCursor(-1)
	case key.Matches(msg, b.keys.Top):
		b.cursor = 0
		b.ensureVisible()
	case key.Matches(msg, b.keys.Bottom):
		b.cursor = max(len(b.rows)-1, 0)
		b.ensureVisible()
	case key.Matches(msg, b.keys.Toggle):
		return b, b.toggleSelected()
	case key.Matches(msg, b.keys.Open):
		if r := b.selected(); r != nil && r.task != nil {
			b.detail = r.task
			b.mode = modeDetail
			return b, nil
		}
		return b, b.toggleSelected()
	case key.Matches(msg, b.keys.Group):
		b.dim = b.dim.Next()
		b.cursor, b.offset = 0, 0
		b.rebuild()
		dim, viewID := b.dim, b.viewID
		return b, b.persist(func(ctx context.Context) error {
			return b.store.SetGroupBy(ctx, viewID, dim)
		})
	case key.Matches(msg, b.keys.NextView):
		b.switchView(1)
	case key.Matches(msg, b.keys.PrevView):
		b.switchView(-1)
	case key.Matches(msg, b.keys.Search):
		b.mode = modeSearch
		return b, b.query.Focus()
	case key.Matches(msg, b.keys.Reload):
		b.reloadConfig()
		b.loadState()
		b.loadTasks()
	}
	return b, nil
}

func (b *Browser) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.mode = modeBrowse
		b.query.Blur()
		return b, nil
	case "esc":
		b.mode = modeBrowse
		b.query.Blur()
		b.query.SetValue("")
		b.rebuild()
		return b, nil
	}
	var cmd tea.Cmd
	b.query, cmd = b.query.Update(msg)
	b.cursor, b.offset = 0, 0
	b.rebuild()
	return b, cmd
}

// toggleSelected flips the expanded flag of the selected group header and
// persists it.
func (b *Browser) toggleSelected() tea.Cmd {
	r := b.selected()
	if r == nil || r.group == nil {
		return nil
	}
	g := findGroup(b.result.Groups, r.group.Key)
	if g == nil {
		return nil
	}
	g.IsExpanded = !g.IsExpanded
	b.flatten()

	viewID, groupKey, expanded := b.viewID, g.Key, g.IsExpanded
	return b.persist(func(ctx context.Context) error {
		return b.store.SetExpanded(ctx, viewID, groupKey, expanded)
	})
}

// persist runs a state write off the UI goroutine and reloads the stored
// state afterwards so later rebuilds see it.
func (b *Browser) persist(fn func(context.Context) error) tea.Cmd {
	store := b.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistWait)
		defer cancel()
		if err := fn(ctx); err != nil {
			return errMsg{fmt.Errorf("saving view state: %w", err)}
		}
		st, err := store.Read()
		if err != nil {
			return errMsg{err}
		}
		return stateMsg{st}
	}
}

func (b *Browser) switchView(delta int) {
	ids := b.cfg.ViewIDs()
	if len(ids) == 0 {
		return
	}
	i := 0
	for j, id := range ids {
		if id == b.viewID {
			i = j
			break
		}
	}
	i = (i + delta + len(ids)) % len(ids)
	b.viewID = ids[i]
	b.dim = b.storedDimension()
	b.cursor, b.offset = 0, 0
	b.rebuild()
}

func (b *Browser) reloadConfig() {
	fresh, err := config.Load(b.cfg.Dir())
	if err != nil {
		b.err = fmt.Errorf("reloading config: %w", err)
		return
	}
	b.cfg = fresh
}

func (b *Browser) loadState() {
	st, err := b.store.Read()
	if err != nil {
		b.err = err
		st = &state.State{}
	}
	b.st = st
	b.dim = b.storedDimension()
}

// storedDimension resolves the dimension of the active view from stored
// state, then the view configuration.
func (b *Browser) storedDimension() view.Dimension {
	if dim, ok := b.st.GroupBy(b.viewID); ok {
		return dim
	}
	dim, _ := view.ParseDimension(b.cfg.ViewOrDefault(b.viewID).GroupBy)
	return dim
}

func (b *Browser) loadTasks() {
	tasks, _, err := task.ReadSnapshot(b.cfg.SnapshotPath(), b.cfg)
	if err != nil {
		b.err = err
		b.tasks = nil
	} else {
		b.err = nil
		b.tasks = tasks
	}
	b.rebuild()
}

// rebuild reruns the view pipeline and restores expanded flags.
func (b *Browser) rebuild() {
	b.result = view.Run(b.tasks, b.cfg, view.Query{
		ViewID:    b.viewID,
		GroupBy:   b.dim,
		TextQuery: b.query.Value(),
		Now:       b.now(),
	})
	b.st.ApplyExpanded(b.viewID, b.result.Groups)
	b.flatten()
}

// flatten turns the group tree into visible rows.
func (b *Browser) flatten() {
	b.rows = b.rows[:0]
	var walk func(groups []view.Group, depth int)
	walk = func(groups []view.Group, depth int) {
		for i := range groups {
			g := &groups[i]
			b.rows = append(b.rows, row{group: g, depth: depth, expanded: g.IsExpanded})
			if !g.IsExpanded {
				continue
			}
			if len(g.Children) > 0 {
				walk(g.Children, depth+1)
				continue
			}
			for _, t := range g.Tasks {
				b.rows = append(b.rows, row{task: t, depth: depth + 1})
			}
		}
	}
	walk(b.result.Groups, 0)
	b.cursor = min(b.cursor, max(len(b.rows)-1, 0))
	b.ensureVisible()
}

func findGroup(groups []view.Group, key string) *view.Group {
	for i := range groups {
		if groups[i].Key == key {
			return &groups[i]
		}
		if g := findGroup(groups[i].Children, key); g != nil {
			return g
		}
	}
	return nil
}

func (b *Browser) selected() *row {
	if b.cursor >= 0 && b.cursor < len(b.rows) {
		return &b.rows[b.cursor]
	}
	return nil
}

func (b *Browser) moveCursor(delta int) {
	b.cursor = min(max(b.cursor+delta, 0), max(len(b.rows)-1, 0))
	b.ensureVisible()
}

func (b *Browser) listHeight() int {
	h := b.height - headerChrome - footerChrome
	if b.err != nil {
		h -= errorChrome
	}
	return max(h, 1)
}

func (b *Browser) ensureVisible() {
	h := b.listHeight()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+h {
		b.offset = b.cursor - h + 1
	}
	b.offset = max(b.offset, 0)
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a reload.
type ReloadMsg struct{}

type errMsg struct{ err error }

type stateMsg struct{ st *state.State }

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	groupStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	cursorStyle      = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overdueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	priorityStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	searchStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	detailFrameStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)

	// tagColorPalette is a set of distinct, readable terminal colors for auto-coloring tags.
	tagColorPalette = []lipgloss.Color{"33", "36", "35", "32", "91", "34", "93", "96"}
)

// tagStyle returns a consistent style for a tag, derived by hashing the tag
// name into tagColorPalette.
func tagStyle(tag string) lipgloss.Style {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	color := tagColorPalette[h.Sum32()%uint32(len(tagColorPalette))]
	return lipgloss.NewStyle().Foreground(color)
}

// --- View rendering ---

func (b *Browser) viewList() string {
	vc := b.cfg.ViewOrDefault(b.viewID)
	name := vc.Name
	if name == "" {
		name = vc.ID
	}
	title := titleStyle.Render(truncate(fmt.Sprintf("%s · %s · %d tasks",
		name, view.DimensionLabel(b.dim), b.result.Total), b.width-2)) //nolint:mnd // title padding

	h := b.listHeight()
	lines := make([]string, 0, h)
	end := min(b.offset+h, len(b.rows))
	for i := b.offset; i < end; i++ {
		line := b.renderRow(b.rows[i])
		if i == b.cursor {
			line = cursorStyle.Width(b.width).Render(line)
		}
		lines = append(lines, line)
	}
	if len(b.rows) == 0 {
		lines = append(lines, dimStyle.Render("  No tasks."))
	}
	for len(lines) < h {
		lines = append(lines, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, "", strings.Join(lines, "\n"), "", b.renderStatusBar())
}

func (b *Browser) renderRow(r row) string {
	indent := strings.Repeat(" ", r.depth*indentWidth)
	if r.group != nil {
		marker := "▸"
		if r.expanded {
			marker = "▾"
		}
		text := fmt.Sprintf("%s %s (%d)", marker, r.group.Title, len(r.group.Tasks))
		return indent + groupStyle.Render(truncate(text, b.width-len(indent)))
	}

	t := r.task
	content := t.Content
	if t.Completed || b.cfg.IsAbandonedMark(t.Mark()) {
		content = doneStyle.Render(content)
	}
	parts := []string{indent + "[" + t.Mark() + "] " + content}
	if p := t.Metadata.Priority; p > 0 {
		parts = append(parts, priorityStyle.Render(output.PriorityLabel(p)))
	}
	if due := t.Metadata.DueDate; due != nil {
		label := view.DueLabel(due, b.now())
		s := due.String()
		if label == view.DueOverdue {
			s = overdueStyle.Render(s)
		} else {
			s = dimStyle.Render(s)
		}
		parts = append(parts, s)
	}
	for _, tag := range t.Metadata.Tags {
		clean := view.NormalizeTag(tag)
		if clean != "" {
			parts = append(parts, tagStyle(clean).Render("#"+clean))
		}
	}
	return lipgloss.NewStyle().MaxWidth(b.width).Render(strings.Join(parts, " "))
}

func (b *Browser) renderStatusBar() string {
	var status string
	switch {
	case b.mode == modeSearch:
		status = b.query.View()
	case b.query.Value() != "":
		status = searchStyle.Render("/"+b.query.Value()) + statusBarStyle.Render("  esc:clear")
	default:
		helps := make([]string, 0, len(b.keys.help()))
		for _, k := range b.keys.help() {
			h := k.Help()
			helps = append(helps, h.Key+":"+h.Desc)
		}
		status = statusBarStyle.Render(truncate(" "+strings.Join(helps, " "), b.width))
	}

	if b.err != nil {
		return errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)) + "\n" + status
	}
	return status
}

func (b *Browser) viewDetail() string {
	var sb strings.Builder
	output.TaskDetail(&sb, b.detail, b.cfg, b.now())
	body := detailFrameStyle.Width(max(b.width-2, 10)).Render(sb.String()) //nolint:mnd // border width
	return lipgloss.JoinVertical(lipgloss.Left, body, statusBarStyle.Render(" esc:back q:back"))
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
