package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/jsonapi/resource"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	stubStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateList modelState = iota
	stateDetail
)

type interactiveModel struct {
	err      error
	in       *inspection
	opts     options
	filter   textinput.Model
	visible  []resource.Key
	selected int
	state    modelState
}

type loadedMsg struct {
	err error
	in  *inspection
}

func newInteractiveModel(opts options) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter by id or type"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	return &interactiveModel{
		opts:   opts,
		filter: ti,
		state:  stateList,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.load, textinput.Blink)
}

func (m *interactiveModel) load() tea.Msg {
	in, err := inspect(m.opts)
	return loadedMsg{in: in, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			if m.state == stateList && len(m.visible) > 0 {
				m.state = stateDetail
			}
			return m, nil

		case "esc":
			if m.state == stateDetail {
				m.state = stateList
				return m, nil
			}
			return m, tea.Quit
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.in = msg.in
		m.applyFilter()
		return m, nil
	}

	if m.state != stateList {
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	if m.in == nil {
		return
	}
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for _, k := range m.in.ctx.Pool().Keys() {
		if query == "" || strings.Contains(strings.ToLower(k.String()), query) {
			m.visible = append(m.visible, k)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}

	if m.in == nil {
		return "Resolving document..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("JSON:API Inspector"))
	b.WriteString(" ")
	b.WriteString(m.opts.file)
	b.WriteString("\n")
	pool := m.in.ctx.Pool()
	b.WriteString(fmt.Sprintf("result %s • pool %s, %d resources\n\n",
		kindStyle.Render(m.in.result.Kind.String()), pool.Mode(), pool.Len()))

	switch m.state {
	case stateList:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		for i, k := range m.visible {
			line := k.String()
			if r, ok := pool.Get(k); ok && r.IsStub() {
				line += " [stub]"
			}
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + keyStyle.Render(line))
			}
			b.WriteString("\n")
		}
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("  no matching resources"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter details • type to filter • esc quit"))

	case stateDetail:
		b.WriteString(m.detail(m.visible[m.selected]))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • ctrl+c quit"))
	}

	return b.String()
}

func (m *interactiveModel) detail(key resource.Key) string {
	var b strings.Builder
	r, ok := m.in.ctx.Pool().Get(key)
	if !ok {
		return errorStyle.Render("resource was evicted") + "\n"
	}

	b.WriteString(fmt.Sprintf("%s %s\n", kindStyle.Render("type"), r.Type()))
	b.WriteString(fmt.Sprintf("%s %s\n", kindStyle.Render("id"), r.ID()))
	if r.IsStub() {
		b.WriteString(stubStyle.Render("stub: referenced but not included"))
		b.WriteString("\n")
		return b.String()
	}

	attrs := r.Attributes()
	if len(attrs) > 0 {
		b.WriteString("\nattributes\n")
		for _, name := range sortedKeys(attrs) {
			b.WriteString(fmt.Sprintf("  %s: %v\n", name, attrs[name]))
		}
	}

	raw, _ := r.Record().Relationships()
	rels, _ := raw.(map[string]any)
	if len(rels) > 0 {
		b.WriteString("\nrelationships\n")
		for _, name := range sortedKeys(rels) {
			keys, _ := r.Relationship(name)
			targets := make([]string, 0, len(keys))
			for _, k := range keys {
				label := k.String()
				if t, ok := m.in.ctx.Pool().Get(k); !ok {
					label += " (missing)"
				} else if t.IsStub() {
					label += " (stub)"
				}
				targets = append(targets, label)
			}
			b.WriteString(fmt.Sprintf("  %s → %s\n", name, strings.Join(targets, ", ")))
		}
	}

	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runInteractive(opts options) error {
	p := tea.NewProgram(newInteractiveModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
