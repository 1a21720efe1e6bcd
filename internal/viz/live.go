package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/eomsim/internal/driver"
	"github.com/san-kum/eomsim/internal/eom"
	"github.com/san-kum/eomsim/internal/models"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 300
	trailCapacity   = 80
	frameRate       = 30
	doublePivotY    = 4
)

type TickMsg time.Time

type point struct{ x, y int }

// Model advances one stepper in real time and renders it.
type Model struct {
	name    string
	eom     eom.EquationOfMotion
	stepper eom.Stepper

	x, v   eom.Vector
	x0, v0 eom.Vector
	t, dt  float64
	frame  float64 // simulated time per tick
	steps  int

	canvas  *Canvas
	trail   []point
	energy  []float64
	running bool
	failed  bool
}

// NewModel builds a live view for e driven by s. The initial state is
// copied and restored on reset.
func NewModel(name string, e eom.EquationOfMotion, s eom.Stepper, x0, v0 eom.Vector, dt, frame float64) Model {
	eom.MustMatch("initial position", s.Dim(), x0)
	eom.MustMatch("initial velocity", s.Dim(), v0)
	return Model{
		name:    name,
		eom:     e,
		stepper: s,
		x:       x0.Clone(),
		v:       v0.Clone(),
		x0:      x0.Clone(),
		v0:      v0.Clone(),
		dt:      dt,
		frame:   math.Max(frame, dt),
		canvas:  NewCanvas(width, height),
		trail:   make([]point, 0, trailCapacity),
		energy:  make([]float64, 0, historyCapacity),
		running: true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
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
			m.Reset()
		case "+", "=":
			m.frame *= 2
		case "-", "_":
			m.frame = math.Max(m.frame/2, m.dt)
		}
	case TickMsg:
		if m.running && !m.failed {
			m.Advance()
		}
		return m, tick()
	}
	return m, nil
}

// Advance integrates one frame of simulated time and records its energy.
func (m *Model) Advance() {
	m.steps += driver.AdvanceUntil(m.stepper, m.eom, &m.t, m.x, m.v, m.dt, m.t+m.frame)
	if !m.x.IsFinite() || !m.v.IsFinite() {
		m.failed = true
	}

	if p, ok := m.tip(); ok {
		m.trail = append(m.trail, p)
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[1:]
		}
	}

	if e, ok := eom.Energy(m.eom, m.x, m.v); ok {
		m.energy = append(m.energy, e)
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}
}

func (m *Model) Reset() {
	copy(m.x, m.x0)
	copy(m.v, m.v0)
	m.t = 0
	m.steps = 0
	m.failed = false
	m.trail = m.trail[:0]
	m.energy = m.energy[:0]
}

func (m Model) Time() float64        { return m.t }
func (m Model) Steps() int           { return m.steps }
func (m Model) Running() bool        { return m.running }
func (m Model) Frame() float64       { return m.frame }
func (m Model) Position() eom.Vector { return m.x.Clone() }

func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.failed:
		s.WriteString(statusFailed.Render("DIVERGED") + "\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.3f", m.t))
	row("steps", fmt.Sprintf("%d", m.steps))
	row("dt", fmt.Sprintf("%g", m.dt))
	row("dt/frame", fmt.Sprintf("%g", m.frame))
	if len(m.energy) > 0 {
		row("energy", fmt.Sprintf("%.6f", m.energy[len(m.energy)-1]))
	}
	for i := 0; i < len(m.x) && i < 4; i++ {
		row(fmt.Sprintf("x%d", i), fmt.Sprintf("%+.4f", m.x[i]))
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset +/-:Speed Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()))
}

func (m *Model) draw() {
	m.canvas.Clear()
	switch m.eom.(type) {
	case *models.Pendulum:
		m.drawPendulum()
	case *models.DoublePendulum:
		m.drawDoublePendulum()
	case *models.SpringChain:
		m.drawSpringChain()
	default:
		m.drawBars()
	}
}

// centre returns the sub-pixel size and centre of the canvas.
func (m *Model) centre() (w, h, cx, cy int) {
	w, h = width*2, height*4
	return w, h, w / 2, h / 2
}

// tip returns the screen position of the last pendulum bob.
func (m *Model) tip() (point, bool) {
	switch m.eom.(type) {
	case *models.Pendulum:
		_, _, bx, by := m.pendulumPoints()
		return point{bx, by}, true
	case *models.DoublePendulum:
		_, _, b2x, b2y := m.doublePendulumPoints()
		return point{b2x, b2y}, true
	}
	return point{}, false
}

func (m *Model) drawTrail() {
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}
}

func (m *Model) pendulumPoints() (cx, cy, bx, by int) {
	_, h, cx, cy := m.centre()
	scale := float64(h) * 0.45
	return cx, cy, cx + int(scale*m.x[0]), cy - int(scale*m.x[1])
}

func (m *Model) drawPendulum() {
	cx, cy, bx, by := m.pendulumPoints()
	m.drawTrail()
	m.canvas.Line(cx, cy, bx, by)
	m.canvas.Blob(bx, by)
}

func (m *Model) doublePendulumPoints() (b1x, b1y, b2x, b2y int) {
	_, h, cx, _ := m.centre()
	scale := float64(h) * 0.22
	b1x = cx + int(scale*math.Sin(m.x[0]))
	b1y = doublePivotY + int(scale*math.Cos(m.x[0]))
	b2x = b1x + int(scale*math.Sin(m.x[1]))
	b2y = b1y + int(scale*math.Cos(m.x[1]))
	return b1x, b1y, b2x, b2y
}

func (m *Model) drawDoublePendulum() {
	_, _, cx, _ := m.centre()
	b1x, b1y, b2x, b2y := m.doublePendulumPoints()
	m.drawTrail()
	m.canvas.Line(cx, doublePivotY, b1x, b1y)
	m.canvas.Blob(b1x, b1y)
	m.canvas.Line(b1x, b1y, b2x, b2y)
	m.canvas.Blob(b2x, b2y)
}

func (m *Model) drawSpringChain() {
	w, _, _, cy := m.centre()
	n := len(m.x)
	gap := float64(w-8) / float64(n+1)

	for y := cy - 6; y <= cy+6; y++ {
		m.canvas.Set(2, y)
		m.canvas.Set(w-3, y)
	}

	prev := 2
	for i := 0; i < n; i++ {
		px := 4 + int(gap*(float64(i+1)+m.x[i]))
		m.canvas.Line(prev, cy, px, cy)
		m.canvas.Blob(px, cy)
		prev = px
	}
	m.canvas.Line(prev, cy, w-3, cy)
}

// drawBars shows each coordinate as a vertical bar around the centre line.
func (m *Model) drawBars() {
	w, h, _, cy := m.centre()
	m.canvas.Line(0, cy, w-1, cy)
	if len(m.x) == 0 {
		return
	}

	maxVal := 1.0
	for _, v := range m.x {
		maxVal = math.Max(maxVal, math.Abs(v))
	}

	barGap := w / (len(m.x) + 1)
	for i, v := range m.x {
		bx := barGap * (i + 1)
		m.canvas.Line(bx, cy, bx, cy-int(v/maxVal*float64(h/2-2)))
	}
}
