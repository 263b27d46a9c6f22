package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/greetbridge/greetings"
	"github.com/wippyai/greetbridge/host"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F4C56D"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectCall modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err         error
	client      *host.Client
	header      string
	result      string
	inputs      []textinput.Model
	selected    int
	focusIdx    int
	outstanding int
	state       modelState
}

type callResultMsg struct {
	err         error
	result      string
	outstanding int
}

func newInteractiveModel(client *host.Client, cfg *greetings.Config) *interactiveModel {
	return &interactiveModel{
		client: client,
		header: fmt.Sprintf("backend=%s order=%s", cfg.Backend, cfg.Ordering),
		state:  stateSelectCall,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectCall && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectCall && m.selected < len(calls)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectCall:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callEntry
				}
				m.state = stateInputArgs
				return m, textinput.Blink

			case stateInputArgs:
				return m, m.callEntry

			case stateShowResult:
				m.reset()
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectCall
				m.inputs = nil
			case stateShowResult:
				m.reset()
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.outstanding = msg.outstanding
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectCall
	m.result = ""
	m.err = nil
	m.inputs = nil
}

func (m *interactiveModel) prepareInputs() {
	c := calls[m.selected]
	m.inputs = make([]textinput.Model, len(c.params))
	for i, p := range c.params {
		ti := textinput.New()
		ti.Placeholder = p.fallback
		ti.Prompt = p.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callEntry() tea.Msg {
	c := calls[m.selected]
	values := make(map[string]string, len(m.inputs))
	for i, input := range m.inputs {
		values[c.params[i].name] = input.Value()
	}

	result, err := c.run(context.Background(), m.client, argsFor(c, values))
	return callResultMsg{
		result:      result,
		err:         err,
		outstanding: m.client.Module().Outstanding(),
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Greetings"))
	b.WriteString(" ")
	b.WriteString(m.header)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectCall:
		b.WriteString("Select an entry point:\n\n")
		for i, c := range calls {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + c.name))
				b.WriteString(" " + formatSignature(c))
			} else {
				b.WriteString("  " + funcStyle.Render(c.name) + " " + formatSignature(c))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		c := calls[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(c.name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(c.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		c := calls[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(c.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("outstanding values: %d", m.outstanding)))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatSignature(c call) string {
	var params []string
	for _, p := range c.params {
		params = append(params, p.name+": "+typeStyle.Render(p.typeStr))
	}
	result := ""
	if c.result != "" {
		result = " -> " + typeStyle.Render(c.result)
	}
	return "(" + strings.Join(params, ", ") + ")" + result + " " + modeStyle.Render("["+c.mode+"]")
}

func runInteractive(client *host.Client, cfg *greetings.Config) error {
	p := tea.NewProgram(newInteractiveModel(client, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
