package ui

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/config"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/ui/views"
)

var helpSections = []string{"Results", "Search & Filter", "Pages & History", "Map", "Other"}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1)
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	noteStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
)

// HelpRenderer handles help and detail content rendering
type HelpRenderer struct {
	cfg config.Config
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(cfg config.Config) *HelpRenderer {
	return &HelpRenderer{cfg: cfg}
}

// RenderHelpContent renders the key bindings with colors for the pager
func (r *HelpRenderer) RenderHelpContent(keys keyMap) string {
	var help strings.Builder

	help.WriteString(titleStyle.Render("cosinnus explorer help"))
	help.WriteString("\n")

	for i, group := range keys.FullHelp() {
		if i < len(helpSections) {
			help.WriteString(sectionStyle.Render(helpSections[i]))
			help.WriteString("\n")
		}
		for _, b := range group {
			writeBinding(&help, b)
		}
	}

	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  Filter examples: topics:1,2 sdgs:3 tags:4"))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  Type toggles: " + r.typeLegend()))
	help.WriteString("\n")
	if topics := r.labels("Topics", r.cfg.Page.Topics); topics != "" {
		help.WriteString(noteStyle.Render(topics))
		help.WriteString("\n")
	}
	if sdgs := r.labels("SDGs", r.cfg.Page.SDGs); sdgs != "" {
		help.WriteString(noteStyle.Render(sdgs))
		help.WriteString("\n")
	}
	if tags := r.labels("Tags", r.cfg.Page.ManagedTags); tags != "" {
		help.WriteString(noteStyle.Render(tags))
		help.WriteString("\n")
	}
	return help.String()
}

func writeBinding(b *strings.Builder, binding key.Binding) {
	h := binding.Help()
	fmt.Fprintf(b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", h.Key)), descStyle.Render(h.Desc))
}

func (r *HelpRenderer) typeLegend() string {
	parts := make([]string, len(domain.FilterTypes))
	for i, t := range domain.FilterTypes {
		parts[i] = fmt.Sprintf("%d %s", i+1, views.TypeLabel(t))
	}
	return strings.Join(parts, ", ")
}

func (r *HelpRenderer) labels(name string, labels []config.Label) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%d %s", l.ID, l.Name)
	}
	return "  " + name + ": " + strings.Join(parts, ", ")
}

// RenderResultInfo renders everything known about one result
func (r *HelpRenderer) RenderResultInfo(res domain.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.cfg.Icon(res.Type) + " " + res.Title))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "  %s %s\n", keyStyle.Render(fmt.Sprintf("%-12s", label)), descStyle.Render(value))
	}
	row("Type", views.TypeLabel(res.Type))
	row("ID", res.ID)
	row("Portal", res.Portal())
	row("URL", res.URL)
	row("Address", res.Address)
	if res.HasLocation() {
		row("Location", fmt.Sprintf("%.5f, %.5f", *res.Lat, *res.Lon))
	}
	row("Relevance", strconv.FormatFloat(res.Relevance, 'f', -1, 64))

	if res.Description != "" {
		b.WriteString(sectionStyle.Render("Description"))
		b.WriteString("\n")
		b.WriteString(res.Description)
		b.WriteString("\n")
	}

	if len(res.Fields) > 0 {
		b.WriteString(sectionStyle.Render("Fields"))
		b.WriteString("\n")
		for _, k := range slices.Sorted(maps.Keys(res.Fields)) {
			row(k, r.fieldValue(k, res.Fields[k]))
		}
	}
	return b.String()
}

// fieldValue resolves id lists against the page dictionaries
func (r *HelpRenderer) fieldValue(name string, v any) string {
	var lookup func(int) string
	switch name {
	case "topics":
		lookup = r.cfg.TopicName
	case "sdgs":
		lookup = r.cfg.SDGName
	case "managed_tags":
		lookup = r.cfg.ManagedTagName
	}
	ids, ok := v.([]any)
	if lookup == nil || !ok {
		return fmt.Sprint(v)
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		f, ok := id.(float64)
		if !ok {
			names = append(names, fmt.Sprint(id))
			continue
		}
		if n := lookup(int(f)); n != "" {
			names = append(names, n)
		} else {
			names = append(names, strconv.Itoa(int(f)))
		}
	}
	return strings.Join(names, ", ")
}

// Pager shows long content in the ov pager
type Pager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPager creates a new pager
func NewPager(program *tea.Program) *Pager {
	return &Pager{program: program}
}

// Show hands the terminal to ov until the user quits it
func (p *Pager) Show(content string) error {
	return p.run(strings.NewReader(content))
}

func (p *Pager) run(r io.Reader) error {
	if p.program == nil {
		return errors.New("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(r)
	if err != nil {
		return fmt.Errorf("open pager: %w", err)
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	cfg := oviewer.NewConfig()
	cfg.IsWriteOnExit = false
	cfg.IsWriteOriginal = false
	root.SetConfig(cfg)

	return root.Run()
}
