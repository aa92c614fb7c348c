package ui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"golang.org/x/term"

	"github.com/ledsync/lighting-engine/internal/utils"
)

var (
	ErrSelectionAborted = eris.New("selection aborted")
	ErrNoInteractiveTTY = eris.New("no interactive terminal available")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))
	pointerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213"))
	inactivePointerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("219")).
				Bold(true)
	instructionKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213")).
				Bold(true)
	instructionTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))
	instructionDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("246"))
	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)
	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Option struct {
	Label string
}

// SetupConfig describes which of the two picks (frame source, output sink)
// the wizard needs to resolve interactively.
type SetupConfig struct {
	RequireSource bool
	RequireSink   bool
	InitialSource int
	InitialSink   int
}

type SetupResult struct {
	SourceIndex int
	SinkIndex   int
}

// RunSetup walks an operator through picking a frame source and output
// sink when the CLI flags left either ambiguous. On a non-interactive
// terminal it returns ErrNoInteractiveTTY so the caller can fall back to
// defaults instead of hanging.
func RunSetup(sources []Option, sinks []Option, cfg SetupConfig) (SetupResult, error) {
	if !cfg.RequireSource && !cfg.RequireSink {
		return SetupResult{
			SourceIndex: utils.ClampIndex(cfg.InitialSource, len(sources)),
			SinkIndex:   utils.ClampIndex(cfg.InitialSink, len(sinks)),
		}, nil
	}

	if !isInteractiveTerminal() {
		return SetupResult{}, ErrNoInteractiveTTY
	}

	program := tea.NewProgram(newSetupModel(sources, sinks, cfg))
	finalModel, err := program.Run()
	if err != nil {
		return SetupResult{}, err
	}

	result := finalModel.(setupModel)
	if result.err != nil {
		return SetupResult{}, result.err
	}

	return SetupResult{
		SourceIndex: utils.ClampIndex(result.sourceIndex, len(sources)),
		SinkIndex:   utils.ClampIndex(result.sinkIndex, len(sinks)),
	}, nil
}

type setupStep int

const (
	stepSelectSource setupStep = iota
	stepSelectSink
	stepConfirm
	stepDone
)

type setupModel struct {
	step  setupStep
	cfg   SetupConfig
	sources []Option
	sinks   []Option

	cursor      int
	sourceIndex int
	sinkIndex   int
	err         error
}

func newSetupModel(sources []Option, sinks []Option, cfg SetupConfig) setupModel {
	m := setupModel{
		sources:     sources,
		sinks:       sinks,
		cfg:         cfg,
		sourceIndex: utils.ClampIndex(cfg.InitialSource, len(sources)),
		sinkIndex:   utils.ClampIndex(cfg.InitialSink, len(sinks)),
	}

	switch {
	case cfg.RequireSource && len(sources) > 0:
		m.step = stepSelectSource
		m.cursor = utils.ClampIndex(cfg.InitialSource, len(sources))
	case cfg.RequireSink && len(sinks) > 0:
		m.step = stepSelectSink
		m.cursor = utils.ClampIndex(cfg.InitialSink, len(sinks))
	default:
		m.step = stepConfirm
	}

	return m
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.step == stepDone {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.err = ErrSelectionAborted
			return m, tea.Quit
		case "up", "k":
			items := m.currentItems()
			if len(items) > 0 {
				m.cursor = wrapIndex(m.cursor-1, len(items))
			}
		case "down", "j":
			items := m.currentItems()
			if len(items) > 0 {
				m.cursor = wrapIndex(m.cursor+1, len(items))
			}
		case "tab", "right", "l":
			switch m.step {
			case stepSelectSource:
				if m.cfg.RequireSink && len(m.sinks) > 0 {
					m.sourceIndex = m.cursor
					m.step = stepSelectSink
					m.cursor = utils.ClampIndex(m.sinkIndex, len(m.sinks))
				}
			case stepSelectSink:
				m.sinkIndex = m.cursor
				m.step = stepConfirm
				m.cursor = 0
			}
		case "shift+tab", "left", "h":
			switch m.step {
			case stepSelectSink:
				if m.cfg.RequireSource && len(m.sources) > 0 {
					m.sinkIndex = m.cursor
					m.step = stepSelectSource
					m.cursor = utils.ClampIndex(m.sourceIndex, len(m.sources))
				}
			case stepConfirm:
				if m.cfg.RequireSink {
					m.step = stepSelectSink
					m.cursor = utils.ClampIndex(m.sinkIndex, len(m.sinks))
				} else if m.cfg.RequireSource {
					m.step = stepSelectSource
					m.cursor = utils.ClampIndex(m.sourceIndex, len(m.sources))
				}
			}
		case "enter":
			switch m.step {
			case stepSelectSource:
				m.sourceIndex = m.cursor
				if m.cfg.RequireSink && len(m.sinks) > 0 {
					m.step = stepSelectSink
					m.cursor = utils.ClampIndex(m.sinkIndex, len(m.sinks))
				} else {
					m.step = stepConfirm
					m.cursor = 0
				}
			case stepSelectSink:
				m.sinkIndex = m.cursor
				m.step = stepConfirm
				m.cursor = 0
			case stepConfirm:
				m.step = stepDone
				return m, tea.Quit
			}
		case "backspace", "b":
			if m.step == stepConfirm {
				if m.cfg.RequireSink {
					m.step = stepSelectSink
					m.cursor = utils.ClampIndex(m.sinkIndex, len(m.sinks))
				} else if m.cfg.RequireSource {
					m.step = stepSelectSource
					m.cursor = utils.ClampIndex(m.sourceIndex, len(m.sources))
				}
			}
		}
	}

	return m, nil
}

func (m setupModel) View() string {
	switch m.step {
	case stepSelectSource:
		return renderSourceView(m)
	case stepSelectSink:
		return renderSinkView(m)
	case stepConfirm:
		return renderSummaryView(m)
	default:
		return ""
	}
}

func (m setupModel) currentItems() []Option {
	switch m.step {
	case stepSelectSink:
		return m.sinks
	case stepSelectSource:
		return m.sources
	default:
		return nil
	}
}

func renderSourceView(m setupModel) string {
	instructions := []string{"↑/k ↓/j move", "enter confirm"}
	if m.cfg.RequireSink {
		instructions = append(instructions, "tab/right continue")
	}
	instructions = append(instructions, "esc cancel")

	lines := []string{
		"",
		titleStyle.Render("Select a music frame source"),
		"",
		renderOptionList(m.sources, m.cursor),
		"",
		renderInstructions(instructions),
		"",
	}
	return strings.Join(lines, "\n")
}

func renderSinkView(m setupModel) string {
	instructions := []string{"↑/k ↓/j move", "enter confirm"}
	if m.cfg.RequireSource {
		instructions = append(instructions, "shift+tab/left back")
	}
	instructions = append(instructions, "tab/right finish", "esc cancel")

	lines := []string{
		"",
		titleStyle.Render("Select an led output sink"),
	}

	if m.cfg.RequireSource {
		lines = append(lines,
			"",
			renderSummaryRow("Source", m.selectedSourceLabel()),
		)
	}

	lines = append(lines,
		"",
		renderOptionList(m.sinks, m.cursor),
		"",
		renderInstructions(instructions),
		"",
	)

	return strings.Join(lines, "\n")
}

func renderSummaryView(m setupModel) string {
	instructions := []string{"enter start", "←/h/b/backspace edit", "esc cancel"}

	lines := []string{
		"",
		titleStyle.Render("Ready to start"),
		"",
		renderSummaryRow("Source", m.selectedSourceLabel()),
		renderSummaryRow("Sink", m.selectedSinkLabel()),
		"",
		renderInstructions(instructions),
		"",
	}
	return strings.Join(lines, "\n")
}

func (m setupModel) selectedSourceLabel() string {
	if m.sourceIndex >= 0 && m.sourceIndex < len(m.sources) {
		return m.sources[m.sourceIndex].Label
	}
	return "not selected"
}

func (m setupModel) selectedSinkLabel() string {
	if m.sinkIndex >= 0 && m.sinkIndex < len(m.sinks) {
		return m.sinks[m.sinkIndex].Label
	}
	return "not selected"
}

func renderPointer(active bool) string {
	if active {
		return pointerStyle.Render("›")
	}
	return inactivePointerStyle.Render(" ")
}

func renderOptionLabel(text string, active bool) string {
	if active {
		return selectedItemStyle.Render(text)
	}
	return itemStyle.Render(text)
}

func renderOptionList(items []Option, cursor int) string {
	if len(items) == 0 {
		return emptyStateStyle.Render("No options detected")
	}

	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Left,
			renderPointer(cursor == i),
			" ",
			renderOptionLabel(item.Label, cursor == i),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderInstructions(parts []string) string {
	if len(parts) == 0 {
		return ""
	}

	if len(parts) == 1 {
		return renderInstruction(parts[0])
	}

	var segments []string
	for i, part := range parts {
		if i > 0 {
			segments = append(segments, instructionDividerStyle.Render(" · "))
		}
		segments = append(segments, renderInstruction(part))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderInstruction(part string) string {
	tokens := strings.Fields(part)
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) == 1 {
		return instructionTextStyle.Render(tokens[0])
	}

	var segments []string
	keyTokens := tokens[:len(tokens)-1]
	for i, token := range keyTokens {
		if i > 0 {
			segments = append(segments, instructionTextStyle.Render(" "))
		}
		segments = append(segments, instructionKeyStyle.Render(token))
	}
	segments = append(segments, instructionTextStyle.Render(" "))
	segments = append(segments, instructionTextStyle.Render(tokens[len(tokens)-1]))
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderSummaryRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		summaryLabelStyle.Render(label+": "),
		summaryValueStyle.Render(value),
	)
}

func wrapIndex(idx, length int) int {
	if length <= 0 {
		return 0
	}
	idx = idx % length
	if idx < 0 {
		idx += length
	}
	return idx
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
