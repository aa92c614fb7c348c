package ui

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/crazy3lf/colorconv"

	"github.com/ledsync/lighting-engine/internal/colorutil"
	"github.com/ledsync/lighting-engine/internal/utils"
)

// LEDFrame is one tick's worth of rendered strip state, as pushed into the
// visualizer by the engine.
type LEDFrame struct {
	Colors           []colorutil.RGB
	Frame            int
	SceneID          int
	EffectID         int
	TempoClass       string
	DimmerPercentage int
	Beat             bool
}

type Visualizer struct {
	program   *tea.Program
	mu        sync.Mutex
	lastSend  time.Time
	throttle  time.Duration
	closeOnce sync.Once
}

type ledFrameMsg struct {
	frame      LEDFrame
	receivedAt time.Time
}

type visualizerModel struct {
	frame       LEDFrame
	lastUpdated time.Time
	ready       bool
	width       int
	height      int
	onExit      func()
	exitOnce    sync.Once
}

var (
	vizContainerStyle    = lipgloss.NewStyle().Padding(0, 2)
	vizTimestampStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	vizMetricLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	vizMetricValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	vizBeatActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197")).Bold(true)
	vizBeatInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	vizWaitingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	vizHintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

const (
	zoneBarWidth  = 24
	zoneCount     = 8
	renderLatency = 45 * time.Millisecond
)

func NewVisualizer(onExit func()) *Visualizer {
	model := &visualizerModel{onExit: onExit}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithoutSignalHandler())

	v := &Visualizer{
		program:  program,
		throttle: renderLatency,
	}

	go program.Run()

	return v
}

// Update pushes a newly rendered LED frame into the visualizer, dropping
// updates that arrive faster than the render throttle.
func (v *Visualizer) Update(frame LEDFrame) {
	v.mu.Lock()
	if time.Since(v.lastSend) < v.throttle {
		v.mu.Unlock()
		return
	}
	v.lastSend = time.Now()
	v.mu.Unlock()

	v.program.Send(ledFrameMsg{
		frame:      frame,
		receivedAt: time.Now(),
	})
}

func (v *Visualizer) Close() {
	v.closeOnce.Do(func() {
		v.program.Quit()
	})
}

func (m *visualizerModel) Init() tea.Cmd {
	return nil
}

func (m *visualizerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case ledFrameMsg:
		m.frame = msg.frame
		m.lastUpdated = msg.receivedAt
		m.ready = true
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC:
			m.invokeExit()
			return m, tea.Quit
		case msg.String() == "q", msg.String() == "esc":
			m.invokeExit()
			return m, tea.Quit
		}
	case tea.QuitMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *visualizerModel) View() string {
	body := ""
	if !m.ready {
		header := titleStyle.Render("Lighting Engine Visualizer")
		waiting := vizWaitingStyle.Render("Waiting for led frames…")
		body = lipgloss.JoinVertical(lipgloss.Left, header, "", waiting)
	} else {
		body = renderVisualizerView(m.frame, m.lastUpdated)
	}
	return vizContainerStyle.Render(body)
}

func renderVisualizerView(frame LEDFrame, updatedAt time.Time) string {
	header := renderHeader(frame, updatedAt)
	metrics := renderMetrics(frame)
	strip := renderStrip(frame)
	zones := renderZones(frame)
	controls := vizHintStyle.Render("Press q / esc / ctrl+c to stop visualization")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		metrics,
		"",
		strip,
		"",
		zones,
		"",
		controls,
	)
}

func renderHeader(frame LEDFrame, updatedAt time.Time) string {
	h, s, v := averageHSV(frame.Colors)
	color := lipgloss.Color(hexColorFromHSV(h, s, v))

	title := titleStyle.
		Foreground(color).
		Render("Lighting Engine Visualizer")
	timestamp := vizTimestampStyle.Render(updatedAt.Format("15:04:05.000"))

	return lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", timestamp)
}

func renderMetrics(frame LEDFrame) string {
	scene := renderMetric("Scene", fmt.Sprintf("%d", frame.SceneID))
	effect := renderMetric("Effect", fmt.Sprintf("%d", frame.EffectID))
	tempoClass := renderMetric("Tempo", normalizeMode(frame.TempoClass))
	dimmer := renderMetric("Dimmer", fmt.Sprintf("%3d%%", frame.DimmerPercentage))
	frameNum := renderMetric("Frame", fmt.Sprintf("%d", frame.Frame))
	beat := renderBeatMetric(frame)

	top := lipgloss.JoinHorizontal(lipgloss.Left, scene, "   ", effect, "   ", tempoClass)
	bottom := lipgloss.JoinHorizontal(lipgloss.Left, dimmer, "   ", beat, "   ", frameNum)

	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func renderMetric(label, value string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		vizMetricLabelStyle.Render(label+":"),
		" ",
		vizMetricValueStyle.Render(value),
	)
}

func renderBeatMetric(frame LEDFrame) string {
	marker := vizBeatInactiveStyle.Render("○")
	if frame.Beat {
		marker = vizBeatActiveStyle.Render("●")
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		vizMetricLabelStyle.Render("Beat:"),
		" ",
		marker,
	)
}

// renderStrip draws every LED in frame.Colors as a colored block, in strip
// order, so the actual composited output is visible at a glance.
func renderStrip(frame LEDFrame) string {
	if len(frame.Colors) == 0 {
		return emptyStateStyle.Render("No LEDs")
	}

	blocks := make([]string, len(frame.Colors))
	for i, c := range frame.Colors {
		hexColor := fmt.Sprintf("#%02x%02x%02x", clampByte(c[0]), clampByte(c[1]), clampByte(c[2]))
		blocks[i] = lipgloss.NewStyle().Background(lipgloss.Color(hexColor)).Render("  ")
	}

	return lipgloss.JoinHorizontal(lipgloss.Left, blocks...)
}

// renderZones buckets the strip into zoneCount equal chunks and renders a
// brightness bar per chunk, colored by that chunk's average hue.
func renderZones(frame LEDFrame) string {
	if len(frame.Colors) == 0 {
		return ""
	}

	chunkSize := (len(frame.Colors) + zoneCount - 1) / zoneCount
	lines := make([]string, 0, zoneCount)

	for z := 0; z < zoneCount; z++ {
		start := z * chunkSize
		if start >= len(frame.Colors) {
			break
		}
		end := start + chunkSize
		if end > len(frame.Colors) {
			end = len(frame.Colors)
		}
		h, s, v := averageHSV(frame.Colors[start:end])
		lines = append(lines, renderZoneBar(fmt.Sprintf("LED %d-%d", start, end-1), h, s, v))
	}

	return strings.Join(lines, "\n")
}

func renderZoneBar(label string, h, s, v float64) string {
	filled := int(math.Round(utils.Clamp(v, 0.0, 1.0) * zoneBarWidth))
	if v > 0 && filled == 0 {
		filled = 1
	}
	color := lipgloss.Color(hexColorFromHSV(h, s, v))

	builder := strings.Builder{}
	builder.Grow(64)
	builder.WriteString(vizMetricLabelStyle.Render(fmt.Sprintf("%-10s", label)))
	builder.WriteString(" [")
	builder.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)))
	builder.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("236")).Render(strings.Repeat("░", zoneBarWidth-filled)))
	builder.WriteString("] ")
	builder.WriteString(vizMetricValueStyle.Render(fmt.Sprintf("%3.0f%%", v*100)))

	return builder.String()
}

func averageHSV(colors []colorutil.RGB) (float64, float64, float64) {
	if len(colors) == 0 {
		return 0, 0, 0
	}
	var sumH, sumS, sumV float64
	for _, c := range colors {
		h, s, v := colorconv.RGBToHSV(uint8(clampByte(c[0])), uint8(clampByte(c[1])), uint8(clampByte(c[2])))
		sumH += h
		sumS += s
		sumV += v
	}
	n := float64(len(colors))
	return sumH / n, sumS / n, sumV / n
}

func clampByte(v int) int {
	return utils.Clamp(v, 0, 255)
}

func hexColorFromHSV(h, s, v float64) string {
	s = utils.Clamp(s, 0.0, 1.0)
	v = utils.Clamp(v, 0.0, 1.0)
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return "#FFFFFF"
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func normalizeMode(mode string) string {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return "unknown"
	}
	return mode
}

func (m *visualizerModel) invokeExit() {
	m.exitOnce.Do(func() {
		if m.onExit != nil {
			m.onExit()
		}
	})
}
