package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/config"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/search"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/coordinator"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/input"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/input/modes"
	inputtypes "github.com/wechange-eg/cosinnus-core-sub001/internal/ui/input/types"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/services/navigation"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/services/selection"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/services/viewport"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/views"
)

const statusTimeout = 3 * time.Second

// Model represents the UI state
type Model struct {
	coord  *coordinator.Coordinator
	cfg    config.Config
	logger *slog.Logger

	// UI-specific state
	width        int
	height       int
	help         help.Model
	keys         keyMap
	spinner      spinner.Model
	status       string
	inPagerMode  bool // tracks if we're currently in pager mode
	flushPending bool // a hover flush tick is outstanding

	inputHandler *input.Handler
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	pager        *Pager

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model around a built view tree
func NewModel(coord *coordinator.Coordinator, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg := coord.Config()
	return &Model{
		coord:        coord,
		cfg:          cfg,
		logger:       logger,
		help:         help.New(),
		keys:         newKeyMap(cfg.Search.InfiniteScroll),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		inputHandler: input.New(),
		renderer:     views.NewRenderer(coord.Styles),
		helpRenderer: NewHelpRenderer(cfg),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPager(p)
}

// Init starts the spinner and issues the initial search
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.coord.Start())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		actions, cmd := m.inputHandler.HandleKey(msg, &modelContext{m: m})

		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	if search.Handles(msg) {
		return m, m.coord.Update(msg)
	}
	if cmd := m.inputHandler.Update(msg); cmd != nil {
		return m, cmd
	}
	return m.handleNonKeyboardMsg(msg)
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hoverFlushMsg:
		m.flushPending = false
		if !m.coord.Selection.Flush(time.Time(msg)) {
			return m, m.scheduleFlush()
		}
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", "error", msg.err)
			return m, m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}
	return m, nil
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	c := m.coord
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		if !c.Navigation.Navigate(navigation.Direction(a.Direction)) {
			return c.ScrollCheck()
		}
		return tea.Batch(m.hover(c.Navigation.GetCursor()), c.ScrollCheck())

	case inputtypes.SelectAction:
		index := a.Index
		if index < 0 {
			index = c.Navigation.GetCursor()
		}
		c.Selection.Toggle(index)

	case inputtypes.DeselectAllAction:
		c.Selection.DeselectAll()

	case inputtypes.UpdateTextAction:
		if a.Mode == inputtypes.ModeQuery {
			return c.Search.SetQuery(a.Text)
		}

	case inputtypes.SubmitTextAction:
		switch a.Mode {
		case inputtypes.ModeQuery:
			return c.Search.SetQuery(a.Text)
		case inputtypes.ModeFilter:
			f, err := modes.ParseFilters(a.Text)
			if err != nil {
				return m.setStatus(err.Error())
			}
			return c.Search.SetIDFilters(f.Topics, f.SDGs, f.ManagedTags)
		}

	case inputtypes.CancelTextAction:
		if a.Mode == inputtypes.ModeQuery {
			return c.Search.SetQuery(a.Original)
		}

	case inputtypes.ToggleTypeAction:
		return c.Search.ToggleType(a.ResultType)

	case inputtypes.ResetFiltersAction:
		return c.Search.ResetFilters()

	case inputtypes.RefreshAction:
		return c.Search.AttemptSearch()

	case inputtypes.PageAction:
		if a.Direction == "prev" {
			return c.Paginator.Prev()
		}
		return c.Paginator.Next()

	case inputtypes.HistoryAction:
		if a.Direction == "back" {
			return c.Back()
		}
		return c.Forward()

	case inputtypes.PanMapAction:
		return c.PanMap(viewport.Direction(a.Direction))

	case inputtypes.ZoomMapAction:
		return c.ZoomMap(a.Factor)

	case inputtypes.FitMapAction:
		return c.FitMap()

	case inputtypes.ResetMapAction:
		return c.ResetMap()

	case inputtypes.TogglePanelAction:
		if !c.Panels.Compact(m.innerWidth()) {
			return m.setStatus("Both panels are visible")
		}
		c.Panels.Toggle()
		m.layout()

	case inputtypes.ShowDetailAction:
		r, ok := c.Results.At(c.Navigation.GetCursor())
		if !ok {
			return nil
		}
		return m.showInPager(m.helpRenderer.RenderResultInfo(r))

	case inputtypes.ToggleHelpAction:
		return m.showInPager(m.helpRenderer.RenderHelpContent(m.keys))

	case inputtypes.QuitAction:
		c.Close()
		return tea.Quit
	}
	return nil
}

// hover moves the hover highlight to a list index, throttled
func (m *Model) hover(index int) tea.Cmd {
	if m.coord.Selection.HoverAt(index, time.Now()) {
		return nil
	}
	return m.scheduleFlush()
}

func (m *Model) hoverID(id string) tea.Cmd {
	if m.coord.Selection.Hover(id, time.Now()) {
		return nil
	}
	return m.scheduleFlush()
}

// scheduleFlush arms one retry for a throttled hover
func (m *Model) scheduleFlush() tea.Cmd {
	if m.flushPending {
		return nil
	}
	m.flushPending = true
	return tea.Tick(selection.HoverRetry(m.cfg.UI.HoverRate), func(t time.Time) tea.Msg {
		return hoverFlushMsg(t)
	})
}

// handleMouse maps wheel, motion and clicks onto the list and the map
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	c := m.coord
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		c.Navigation.Navigate(navigation.DirectionUp)
		return nil
	case tea.MouseButtonWheelDown:
		c.Navigation.Navigate(navigation.DirectionDown)
		return c.ScrollCheck()
	}

	id, ok := m.resultAt(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		if !ok {
			id = ""
		}
		return m.hoverID(id)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !ok {
			return nil
		}
		if sel, has := c.Selection.GetSelected(); has && sel.ID == id {
			c.Selection.DeselectAll()
			return nil
		}
		c.Selection.Select(id)
		if i := c.Results.IndexOf(id); i >= 0 {
			c.Navigation.MoveToIndex(i)
		}
	}
	return nil
}

// resultAt finds the result under a screen cell
func (m *Model) resultAt(x, y int) (string, bool) {
	c := m.coord
	row := y - views.HeaderLines
	col := x - 1 // main container padding
	bodyHeight := views.BodyHeight(m.height)
	if row < 0 || row >= bodyHeight || col < 0 {
		return "", false
	}

	listWidth, _ := c.Panels.Widths(m.innerWidth())
	if col < listWidth {
		r, ok := c.Results.At(c.Navigation.GetViewportOffset() + row)
		return r.ID, ok
	}

	mw, mh, bordered := m.mapSize()
	mapCol, mapRow := col-listWidth, row
	if bordered {
		mapCol, mapRow = mapCol-1, mapRow-1
	}
	marker, ok := c.Markers.At(c.Viewport.Bounds(), mw, mh, mapCol, mapRow)
	if !ok || len(marker.IDs) == 0 {
		return "", false
	}
	return marker.IDs[0], true
}

// showInPager returns a command that shows content using the ov pager
func (m *Model) showInPager(content string) tea.Cmd {
	if m.pager == nil {
		return m.setStatus("Pager unavailable")
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.Show(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// layout propagates the terminal size into the views
func (m *Model) layout() {
	c := m.coord
	width := m.innerWidth()
	listWidth, _ := c.Panels.Widths(width)
	c.Tiles.SetWidth(max(listWidth-2, 10))
	c.Navigation.SetViewportHeight(views.BodyHeight(m.height))
	m.keys.compactUI = c.Panels.Compact(width)
}

func (m *Model) innerWidth() int {
	return max(m.width-2, 1)
}

// mapSize returns the plot size; the map is framed unless it fills the screen
func (m *Model) mapSize() (width, height int, bordered bool) {
	listWidth, mapWidth := m.coord.Panels.Widths(m.innerWidth())
	bodyHeight := views.BodyHeight(m.height)
	if listWidth == 0 {
		return mapWidth, bodyHeight, false
	}
	return max(mapWidth-2, 1), max(bodyHeight-2, 1), true
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}
	c := m.coord

	listWidth, mapWidth := c.Panels.Widths(m.innerWidth())
	var list, mapView string
	if listWidth > 0 {
		list = c.Tiles.View(c.Navigation.GetViewportOffset(), views.BodyHeight(m.height), c.Navigation.GetCursor())
	}
	if mapWidth > 0 {
		mw, mh, _ := m.mapSize()
		mapView = c.Markers.View(c.Viewport.Bounds(), mw, mh)
	}

	state := views.ViewState{
		Width:      m.width,
		Height:     m.height,
		Phase:      c.Phase().String(),
		Spinner:    m.spinner.View(),
		Count:      c.Search.Count(),
		Loaded:     c.Results.Len(),
		URL:        c.URL(),
		Filters:    m.filterSummary(),
		Status:     m.status,
		Body:       c.Panels.Layout(m.innerWidth(), list, mapView),
		Pagination: c.Paginator.View(c.Search.State().Offset),
		HelpLine:   m.help.View(m.keys),
	}
	if err := c.LastError(); err != nil {
		state.Error = err.Error()
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		state.InputLine = m.inputHandler.Prompt() + ti.View()
	}
	if m.inputHandler.CurrentMode() == inputtypes.ModeResetConfirm {
		state.Confirm = "Reset all filters? (y/n)"
	}
	return m.renderer.Render(state)
}

// filterSummary lists the filters that differ from the defaults
func (m *Model) filterSummary() string {
	s := m.coord.Search.State()
	var parts []string
	if s.Query != "" {
		parts = append(parts, fmt.Sprintf("q=%q", s.Query))
	}
	var off []string
	for _, t := range domain.FilterTypes {
		if !s.Types[t] {
			off = append(off, views.TypeLabel(t))
		}
	}
	if len(off) > 0 {
		parts = append(parts, "hidden: "+strings.Join(off, ", "))
	}
	if f := modes.FormatFilters(modes.Filters{Topics: s.Topics, SDGs: s.SDGs, ManagedTags: s.ManagedTags}); f != "" {
		parts = append(parts, f)
	}
	if s.FilterGroup != "" {
		parts = append(parts, "group: "+s.FilterGroup)
	}
	return strings.Join(parts, "  ")
}

// modelContext implements the input Context over the model
type modelContext struct {
	m *Model
}

func (ctx *modelContext) CurrentIndex() int {
	return ctx.m.coord.Navigation.GetCursor()
}

func (ctx *modelContext) TotalItems() int {
	return ctx.m.coord.Results.Len()
}

func (ctx *modelContext) HasSelection() bool {
	return ctx.m.coord.Selection.HasSelection()
}

func (ctx *modelContext) CurrentResultID() string {
	r, ok := ctx.m.coord.Results.At(ctx.m.coord.Navigation.GetCursor())
	if !ok {
		return ""
	}
	return r.ID
}

func (ctx *modelContext) RawQuery() string {
	return ctx.m.coord.Search.RawQuery()
}

func (ctx *modelContext) FilterText() string {
	s := ctx.m.coord.Search.State()
	return modes.FormatFilters(modes.Filters{Topics: s.Topics, SDGs: s.SDGs, ManagedTags: s.ManagedTags})
}

func (ctx *modelContext) InfiniteScroll() bool {
	return ctx.m.cfg.Search.InfiniteScroll
}
