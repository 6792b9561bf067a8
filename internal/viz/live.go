package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/propsim/internal/config"
	"github.com/san-kum/propsim/internal/scene"
	"github.com/san-kum/propsim/internal/world"
)

const (
	canvasW         = 60
	canvasH         = 22
	historyCapacity = 600

	// World window of the side view, in meters.
	worldXMin = -1.5
	worldXMax = 1.5
	worldYMax = 2.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives the live scene under bubbletea. The mouse is the pointer:
// move to aim, hold the left button to grab.
type Model struct {
	sc  *scene.Scene
	cfg *config.Config
	dt  float64

	canvas *Canvas

	px, py float64
	press  bool
	lag    float64
	shake  float64

	running      bool
	showHelp     bool
	levelHistory []float64
}

func NewModel(cfg *config.Config) Model {
	return Model{
		sc:           scene.New(cfg),
		cfg:          cfg,
		dt:           cfg.Dt,
		canvas:       NewCanvas(canvasW, canvasH),
		px:           0.5,
		py:           0.5,
		running:      true,
		levelHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sc = scene.New(m.cfg)
			m.levelHistory = m.levelHistory[:0]
			m.press = false
		case "l":
			m.lag = clamp01(m.lag + 0.1)
		case "L":
			m.lag = clamp01(m.lag - 0.1)
		case "s":
			m.shake = clamp01(m.shake + 0.1)
		case "S":
			m.shake = clamp01(m.shake - 0.1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		// Canvas content starts after its padding.
		m.px = clamp01((float64(msg.X) - 2) / canvasW)
		m.py = clamp01((float64(msg.Y) - 1) / canvasH)
		if msg.Button == tea.MouseButtonLeft {
			switch msg.Action {
			case tea.MouseActionPress:
				m.press = true
			case tea.MouseActionRelease:
				m.press = false
			}
		}
	case TickMsg:
		if m.running {
			m.sc.Step(m.dt, scene.Input{
				PX:    m.px,
				PY:    m.py,
				Press: m.press,
				Lag:   m.lag,
				Shake: m.shake,
			})
			m.levelHistory = append(m.levelHistory, m.sc.LevelPercent())
			if len(m.levelHistory) > historyCapacity {
				m.levelHistory = m.levelHistory[1:]
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// toScreen maps world (x, y) to canvas sub-pixels, side view, y up.
func toScreen(x, y float64) (int, int) {
	sw := float64(canvasW * 2)
	sh := float64(canvasH * 4)
	sx := (x - worldXMin) / (worldXMax - worldXMin) * sw
	sy := sh - y/worldYMax*sh
	return int(sx), int(sy)
}

// radiusToScreen converts a world radius to sub-pixel radii, compensating
// for the 2x4 braille cell aspect.
func radiusToScreen(r float64) (float64, float64) {
	sw := float64(canvasW * 2)
	sh := float64(canvasH * 4)
	return r / (worldXMax - worldXMin) * sw, r / worldYMax * sh
}

func (m *Model) draw() {
	m.canvas.Clear()

	gx0, gy := toScreen(worldXMin, 0)
	gx1, _ := toScreen(worldXMax, 0)
	m.canvas.DrawLine(gx0, gy-1, gx1-1, gy-1)

	for _, b := range m.sc.World.Bodies() {
		if b.Shape != world.Sphere {
			continue
		}
		cx, cy := toScreen(b.Pos.X, b.Pos.Y)
		rx, ry := radiusToScreen(b.Radius)
		if b.Ghost {
			m.canvas.Set(cx, cy)
			continue
		}
		m.canvas.DrawCircle(cx, cy, rx, ry)
	}

	// Fluid level as a chord inside the vessel.
	if v := m.sc.Vessel(); !v.Broken {
		frac := m.sc.LevelPercent() / 100
		rx, ry := radiusToScreen(v.Body.Radius)
		cx, cy := toScreen(v.Body.Pos.X, v.Body.Pos.Y)
		ly := cy + int(ry) - int(2*ry*frac)
		m.canvas.DrawLine(cx-int(rx*0.7), ly, cx+int(rx*0.7), ly)
	}

	for _, mark := range m.sc.Droplets.Marks() {
		sx, sy := toScreen(mark.Pos.X, 0)
		m.canvas.Set(sx, sy-2)
	}

	// Pointer crosshair.
	sx := int(m.px * float64(canvasW*2))
	sy := int(m.py * float64(canvasH*4))
	m.canvas.Set(sx, sy)
	m.canvas.Set(sx-2, sy)
	m.canvas.Set(sx+2, sy)
	m.canvas.Set(sx, sy-2)
	m.canvas.Set(sx, sy+2)
}

func bar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("PROPSIM") + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.levelHistory) > 1 {
		chart := asciigraph.Plot(m.levelHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Fill %"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.sc.Time())) + "\n")
	s.WriteString(labelStyle.Render("Fill") + valueStyle.Render(fmt.Sprintf("%.1f%%", m.sc.LevelPercent())) + "\n")
	s.WriteString(labelStyle.Render("Spilled") + valueStyle.Render(fmt.Sprintf("%.3f", m.sc.SpilledTotal())) + "\n")
	s.WriteString(labelStyle.Render("Droplets") + valueStyle.Render(fmt.Sprintf("%d", m.sc.Droplets.Count())) + "\n")
	s.WriteString(labelStyle.Render("Breaks") + valueStyle.Render(fmt.Sprintf("%d", m.sc.Breaks())) + "\n")

	s.WriteString("\nGRAB\n")
	if mode, ok := m.sc.Grab.Mode(); ok {
		s.WriteString(labelStyle.Render("Mode") + valueStyle.Render(mode.String()) + "\n")
		line := fmt.Sprintf("%s %.2f", bar(m.sc.GrabDepth(), 10), m.sc.GrabDepth())
		if m.sc.InTargetZone() {
			s.WriteString(labelStyle.Render("Depth") + alertStyle.Render(line+" ZONE") + "\n")
		} else {
			s.WriteString(labelStyle.Render("Depth") + valueStyle.Render(line) + "\n")
		}
	} else {
		s.WriteString(labelStyle.Render("Mode") + valueStyle.Render("(idle)") + "\n")
	}

	s.WriteString("\nHAND\n")
	s.WriteString(labelStyle.Render("Lag") + valueStyle.Render(fmt.Sprintf("%s %.1f", bar(m.lag, 10), m.lag)) + "\n")
	s.WriteString(labelStyle.Render("Shake") + valueStyle.Render(fmt.Sprintf("%s %.1f", bar(m.shake, 10), m.shake)) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nMouse:Aim  Hold:Grab\nSP:Pause R:Reset Q:Quit\nl/L:Lag s/S:Shake ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Mouse    - Aim the pointer          ║
║  Hold LMB - Grab, pull up to lift    ║
║  Space    - Pause/Resume             ║
║  R        - Reset scene              ║
║  Q        - Quit                     ║
║  l/L      - More/less hand lag       ║
║  s/S      - More/less hand shake     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
