package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/trendly/internal/browser"
	"github.com/matheuskafuri/trendly/internal/config"
	"github.com/matheuskafuri/trendly/internal/newsapi"
	"github.com/matheuskafuri/trendly/internal/pager"
)

// Moving the cursor this close to the end of the list loads the next page.
const loadMoreThreshold = 5

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFilter
	modeHelp
)

type App struct {
	cfg    *config.Config
	ctrl   *pager.Controller
	logger *slog.Logger
	ctx    context.Context

	snap   pager.Snapshot
	cursor int
	focus  focusPane
	mode   mode
	dark   bool

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	spinner     spinner.Model
	tabs        categoryBar

	previewScroll int
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Ctx        context.Context
	Cfg        *config.Config
	Controller *pager.Controller
	Logger     *slog.Logger
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search news..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	snap := opts.Controller.Snapshot()
	dark := opts.Cfg.Dark()
	lipgloss.SetHasDarkBackground(dark)

	return &App{
		cfg:         opts.Cfg,
		ctrl:        opts.Controller,
		logger:      logger,
		ctx:         ctx,
		snap:        snap,
		dark:        dark,
		tabs:        newCategoryBar(opts.Cfg.Categories, snap.Query),
		searchInput: ti,
		spinner:     sp,
	}
}

func (a *App) Init() tea.Cmd {
	return a.run(a.ctrl.SubmitSearch(a.ctx))
}

// run refreshes the snapshot after a trigger and, when the trigger was
// accepted, performs the load off the event loop.
func (a *App) run(l *pager.Load) tea.Cmd {
	a.snap = a.ctrl.Snapshot()
	if l == nil {
		return nil
	}
	return tea.Batch(loadCmd(l), a.spinner.Tick)
}

func loadCmd(l *pager.Load) tea.Cmd {
	return func() tea.Msg {
		l.Run()
		return pageLoadedMsg{}
	}
}

// reset runs a load that replaces the list and moves the cursor back to the top.
func (a *App) reset(l *pager.Load) tea.Cmd {
	a.cursor = 0
	a.previewScroll = 0
	cmd := a.run(l)
	a.tabs.sync(a.snap.Query)
	return cmd
}

func (a *App) maybeLoadMore() tea.Cmd {
	if !nearEnd(a.cursor, len(a.snap.Articles), loadMoreThreshold) {
		return nil
	}
	if a.snap.InFlight() || a.snap.Exhausted() {
		return nil
	}
	return a.run(a.ctrl.RequestMore(a.ctx))
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case pageLoadedMsg:
		a.snap = a.ctrl.Snapshot()
		if a.cursor >= len(a.snap.Articles) {
			a.cursor = max(0, len(a.snap.Articles)-1)
		}
		return a, nil

	case openErrMsg:
		a.err = msg.err
		a.logger.Warn("open article", "error", msg.err)
		return a, nil

	case spinner.TickMsg:
		if a.snap.InFlight() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	// Mode-specific handling
	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	// Normal mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusPreview {
			a.previewScroll++
			return a, nil
		}
		if a.cursor < len(a.snap.Articles)-1 {
			a.cursor++
			a.previewScroll = 0
		}
		return a, a.maybeLoadMore()
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "g", "home":
		a.cursor = 0
		a.previewScroll = 0
		return a, nil
	case "G", "end":
		a.cursor = max(0, len(a.snap.Articles)-1)
		a.previewScroll = 0
		return a, a.maybeLoadMore()
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if art := a.selected(); art != nil {
			return a, openBrowserCmd(art.URL)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.SetValue("")
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.tabs.selecting = true
		return a, nil
	case "s":
		next := cycle(a.cfg.SortOptions, a.snap.SortBy)
		a.logger.Debug("sort changed", "sort_by", next)
		return a, a.reset(a.ctrl.SetSortBy(a.ctx, next))
	case "l":
		next := cycle(a.cfg.Languages, a.snap.Language)
		a.logger.Debug("language changed", "language", next)
		return a, a.reset(a.ctrl.SetLanguage(a.ctx, next))
	case "r":
		return a, a.reset(a.ctrl.SubmitSearch(a.ctx))
	case "t":
		a.dark = !a.dark
		lipgloss.SetHasDarkBackground(a.dark)
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		q := strings.TrimSpace(a.searchInput.Value())
		a.logger.Debug("search submitted", "query", q)
		return a, a.setQuery(q)
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.closeFilter()
		return a, nil
	case "left", "h":
		a.tabs.left()
		return a, nil
	case "right", "l":
		a.tabs.right()
		return a, nil
	case " ", "enter":
		cat, ok := a.tabs.current()
		if !ok {
			return a, nil
		}
		a.closeFilter()
		return a, a.setQuery(cat)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		cat, ok := a.tabs.at(int(msg.String()[0] - '0'))
		if !ok {
			return a, nil
		}
		a.closeFilter()
		return a, a.setQuery(cat)
	}
	return a, nil
}

func (a *App) closeFilter() {
	a.mode = modeNormal
	a.tabs.selecting = false
}

func (a *App) setQuery(q string) tea.Cmd {
	return a.reset(a.ctrl.SetQuery(a.ctx, q))
}

func (a *App) selected() *newsapi.Article {
	if a.cursor < 0 || a.cursor >= len(a.snap.Articles) {
		return nil
	}
	return &a.snap.Articles[a.cursor]
}

// cycle returns the option after current, wrapping around.
func cycle(options []string, current string) string {
	if len(options) == 0 {
		return current
	}
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}

func (a *App) displayQuery() string {
	if a.snap.Query == "" {
		return newsapi.DefaultQuery
	}
	return a.snap.Query
}

// footer is the line under the list: the empty state, the loading hint or
// the end-of-results marker.
func (a *App) footer() string {
	switch {
	case len(a.snap.Articles) == 0 && a.snap.InFlight():
		return "Loading..."
	case len(a.snap.Articles) == 0:
		return fmt.Sprintf("No articles found for %q. Try another search or category.", a.displayQuery())
	case a.snap.State == pager.FetchingMore:
		return "Loading more..."
	case a.snap.Exhausted():
		return "No more articles to load."
	}
	return ""
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  trendly")
	}

	if a.mode == modeHelp {
		return a.withBottomBar(a.renderHelp(), "? close  q quit")
	}

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.35)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("trendly")
	headerRight := headerDateStyle.Render(time.Now().Format("Jan 2"))
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Category bar, replaced by the search input while searching
	filter := a.tabs.render(a.width)
	if a.mode == modeSearch {
		filter = a.searchInput.View()
	}

	// List pane
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(a.snap.Articles, a.cursor, contentHeight, innerListW, a.footer())

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(a.selected(), innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := renderStatusBar(statusInfo{
		count:     len(a.snap.Articles),
		total:     a.snap.TotalResults,
		label:     a.tabs.label(a.snap.Query),
		sortBy:    a.snap.SortBy,
		language:  a.snap.Language,
		loading:   a.snap.InFlight(),
		searching: a.mode == modeSearch,
		filtering: a.mode == modeFilter,
		showTop:   a.cursor >= visibleItems(contentHeight-1),
	}, a.width)

	if a.snap.InFlight() {
		status = a.spinner.View() + " " + status
	}

	// Error display
	if a.err != nil {
		status = lipgloss.NewStyle().Foreground(colorAccent).Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("trendly")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓      Navigate article list\n" +
		"  g/G           Jump to top / bottom\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open article in browser\n" +
		"  /             Search news\n" +
		"  f             Choose a category\n" +
		"  s             Cycle sort order\n" +
		"  l             Cycle language\n" +
		"  r             Reload current search\n" +
		"  t             Toggle light/dark theme\n\n" +
		dim.Render("Category Mode") + "\n" +
		"  ←/→, h/l      Move between categories\n" +
		"  space/enter   Select category\n" +
		"  1-9           Select category by number\n" +
		"  esc, f        Exit category mode\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c     Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(app.ctx))
	_, err := p.Run()
	return err
}
