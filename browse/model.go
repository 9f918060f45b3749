// Package browse is a read-only terminal browser of saved configurations.
package browse

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	nt "extract/entity"
	"extract/message"
	"extract/style"
)

const (
	footerHeight = 2
	listWidth    = 40
)

// Model is the bubbletea model for the configuration browser.
type Model struct {
	lister      message.Lister
	logger      nt.Logger
	ctx         context.Context
	errorString string

	Names    []string
	Selected int
	Current  nt.Configuration

	Width  int
	Height int
}

// New creates a browser over lister.
func New(ctx context.Context, lister message.Lister, lgr nt.Logger) Model {

	return Model{
		lister: lister,
		logger: lgr,
		ctx:    ctx,
	}
}

func (m Model) Init() tea.Cmd {
	return message.NamesCmd(m.ctx, m.lister)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {

	switch msg := msg.(type) {

	case message.NamesMsg:
		m.Names = msg.Names
		m.Selected = 0
		return m, m.loadSelected()

	case message.ConfigMsg:
		m.Current = msg.Config
		return m, nil

	case message.ErrorMsg:
		m.logger.Error(m.ctx, "error msg", msg.Err)
		m.errorString = msg.Err.Error()
		return m, nil

	case tea.KeyPressMsg:
		m.errorString = ""

		previous := m.Selected
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.Selected > 0 {
				m.Selected--
			}

		case "down", "j":
			if m.Selected < len(m.Names)-1 {
				m.Selected++
			}

		case "g":
			m.Selected = 0

		case "G":
			if len(m.Names) > 0 {
				m.Selected = len(m.Names) - 1
			}

		case "r":
			return m, message.NamesCmd(m.ctx, m.lister)
		}

		if m.Selected != previous {
			return m, m.loadSelected()
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}

	return m, nil
}

func (m Model) View() tea.View {
	if m.Width == 0 {
		return tea.NewView("Loading...")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), "  ", m.renderDetail())

	footer := RenderFooter(m.Selected+1, len(m.Names), m.Current.View, m.Width)
	if m.errorString != "" {
		footer = style.ErrorStyle.Render(m.errorString)
	}

	screen := lipgloss.NewLayer("screen", body)
	footerLayer := lipgloss.NewLayer("footer", footer).Y(m.Height - footerHeight)

	canvas := lipgloss.NewCanvas(m.Width, m.Height)
	canvas.Compose(screen)
	canvas.Compose(footerLayer)

	view := tea.NewView(canvas)
	view.AltScreen = true
	return view
}

func (m Model) loadSelected() tea.Cmd {

	if m.Selected >= len(m.Names) {
		return nil
	}
	return message.ConfigCmd(m.ctx, m.lister, m.Names[m.Selected])
}

func (m Model) renderList() string {

	tbl := table.New()
	style.StyleTable(tbl)
	tbl.StyleFunc(style.RowStyler(m.Selected))
	tbl.Headers("configuration")

	for _, name := range m.Names {
		tbl.Row(style.Truncate(name, listWidth))
	}
	return tbl.Render()
}

func (m Model) renderDetail() string {

	cfg := m.Current
	if cfg.Id == "" {
		return style.MutedStyle.Render("no configuration selected")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", style.HeaderStyle.Render(cfg.Name))
	fmt.Fprintf(&sb, "%s %s\n", style.MutedStyle.Render("id     "), cfg.Id)
	fmt.Fprintf(&sb, "%s %s\n", style.MutedStyle.Render("source "), cfg.Source)
	fmt.Fprintf(&sb, "%s %s\n", style.MutedStyle.Render("view   "), cfg.View)
	fmt.Fprintf(&sb, "%s %s\n", style.MutedStyle.Render("created"), nt.FormatTime(cfg.CreatedAt))
	fmt.Fprintf(&sb, "%s %d filters, %d rules\n\n", style.MutedStyle.Render("defines"), len(cfg.Filters), len(cfg.Rules))
	sb.WriteString(style.SqlStyle.Render(cfg.Sql))

	return sb.String()
}

// RenderFooter renders a footer with the position in the list and the selected view.
func RenderFooter(current, total int, view string, width int) string {
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if total == 0 {
		current = 0
	}
	left := fmt.Sprintf("%d/%d", current, total)
	right := view

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return footerStyle.Render(left + strings.Repeat(" ", padding) + right)
}
