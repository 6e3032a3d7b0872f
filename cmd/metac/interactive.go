package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/metaobject/metatable"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	memberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserModel struct {
	err      error
	log      *zap.Logger
	filename string
	classes  []classInfo
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
}

type classInfo struct {
	md      *metatable.Metadata
	decoded *metatable.Decoded
}

type modelState int

const (
	stateSelectClass modelState = iota
	stateShowClass
)

func newBrowserModel(filename string, log *zap.Logger) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()
	return &browserModel{
		filename: filename,
		log:      log,
		filter:   ti,
		state:    stateSelectClass,
	}
}

type loadedMsg struct {
	err     error
	classes []classInfo
}

func (m *browserModel) Init() tea.Cmd {
	return m.loadClasses
}

func (m *browserModel) loadClasses() tea.Msg {
	compiled, err := compileFile(m.filename, m.log)
	if err != nil {
		return loadedMsg{err: err}
	}
	classes := make([]classInfo, 0, len(compiled))
	for _, md := range compiled {
		d, err := metatable.DecodeMetadata(md)
		if err != nil {
			return loadedMsg{err: err}
		}
		classes = append(classes, classInfo{md: md, decoded: d})
	}
	return loadedMsg{classes: classes}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShowClass || m.err != nil {
				return m, tea.Quit
			}

		case "up":
			if m.state == stateSelectClass && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateSelectClass && m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateSelectClass:
				if len(m.visible) > 0 {
					m.state = stateShowClass
				}
			case stateShowClass:
				m.state = stateSelectClass
			}
			return m, nil

		case "esc":
			if m.state == stateShowClass {
				m.state = stateSelectClass
				return m, nil
			}
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.classes = msg.classes
		m.applyFilter()
		return m, nil
	}

	if m.state == stateSelectClass {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}
	return m, nil
}

// applyFilter recomputes the visible classes from the filter text.
func (m *browserModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, c := range m.classes {
		if q == "" || strings.Contains(strings.ToLower(c.decoded.Name), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *browserModel) current() classInfo {
	return m.classes[m.visible[m.selected]]
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.classes == nil {
		return "Compiling declarations..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Class Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectClass:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		for i, idx := range m.visible {
			line := m.formatClass(m.classes[idx])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • type to filter • enter open • ctrl+c quit"))

	case stateShowClass:
		c := m.current()
		b.WriteString(memberStyle.Render(c.decoded.Name))
		b.WriteString(fmt.Sprintf(" (%d words, %d pool bytes)\n\n", len(c.md.Table), len(c.md.Strings)))

		b.WriteString("Methods:\n")
		for _, meth := range c.decoded.Methods {
			words := c.md.Table[meth.Index : meth.Index+metatable.MethodRecordSize]
			b.WriteString(fmt.Sprintf("  %s %s  %s\n",
				typeStyle.Render(meth.Result),
				memberStyle.Render(meth.Signature),
				wordStyle.Render(formatWords(meth.Index, words))))
		}
		b.WriteString("\nProperties:\n")
		for _, p := range c.decoded.Properties {
			words := c.md.Table[p.Index : p.Index+metatable.PropertyRecordSize]
			b.WriteString(fmt.Sprintf("  %s %s %s  %s\n",
				typeStyle.Render(p.Type),
				memberStyle.Render(p.Name),
				access(p),
				wordStyle.Render(formatWords(p.Index, words))))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}

func (m *browserModel) formatClass(c classInfo) string {
	return memberStyle.Render(c.decoded.Name) + " " +
		typeStyle.Render(fmt.Sprintf("%d methods, %d properties", len(c.decoded.Methods), len(c.decoded.Properties)))
}

func formatWords(index int, words []uint32) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%d", w)
	}
	return fmt.Sprintf("@%d [%s]", index, strings.Join(parts, " "))
}

func runInteractive(filename string, log *zap.Logger) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal on stdout")
	}
	p := tea.NewProgram(newBrowserModel(filename, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
