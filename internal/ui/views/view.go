package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rows taken by the title, address and input lines above the panels
const HeaderLines = 3

// Rows taken by the pagination and help lines below the panels
const FooterLines = 2

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width      int
	Height     int
	Phase      string // search phase name
	Spinner    string
	Error      string
	Count      int
	Loaded     int
	URL        string
	InputLine  string // prompt and text while a text mode is active
	Filters    string // summary of the active filters
	Status     string // transient message
	Body       string // laid out panels
	Pagination string
	HelpLine   string
	Confirm    string // non-empty shows a question popup
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// BodyHeight returns the rows left for the panels
func BodyHeight(height int) int {
	return max(height-HeaderLines-FooterLines, 1)
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	content.WriteString(r.styles.AddressBar.Render(truncate(state.URL, max(state.Width-2, 4))))
	content.WriteString("\n")

	switch {
	case state.InputLine != "":
		content.WriteString(state.InputLine)
	case state.Status != "":
		content.WriteString(r.styles.Status.Render(state.Status))
	case state.Filters != "":
		content.WriteString(r.styles.Filter.Render(state.Filters))
	}
	content.WriteString("\n")

	body := state.Body
	if state.Error != "" && state.Loaded == 0 {
		body = r.styles.StatusError.Render("Search failed: " + state.Error)
	}
	content.WriteString(body)

	// Pad so pagination and help sit at the bottom
	used := strings.Count(content.String(), "\n") + 1
	if pad := state.Height - used - FooterLines; pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}
	content.WriteString("\n")
	content.WriteString(state.Pagination)
	content.WriteString("\n")
	content.WriteString(state.HelpLine)

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	finalContent := mainStyle.Render(content.String())

	if state.Confirm != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, state.Confirm, state.Height, state.Width)
	}
	return finalContent
}

// renderTitle renders the logo with right-aligned search indicators
func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("cosinnus")

	var right string
	switch {
	case state.Phase == "searching":
		right = r.styles.StatusLoading.Render(fmt.Sprintf("%s Searching", state.Spinner))
	case state.Phase == "debouncing":
		right = r.styles.StatusLoading.Render("… waiting for input")
	case state.Error != "":
		right = r.styles.StatusError.Render("✗ " + truncate(state.Error, 48))
	case state.Count > 0:
		right = r.styles.StatusSuccess.Render(fmt.Sprintf("✓ %d results", state.Count))
	default:
		right = r.styles.Dim.Render("no results")
	}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	available := termWidth - 2 // main container padding
	if pad := available - lipgloss.Width(logo) - lipgloss.Width(right); pad > 0 {
		return logo + strings.Repeat(" ", pad) + right
	}
	return logo + "  " + right
}
