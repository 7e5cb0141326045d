// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightsky/internal/logging"
	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/sky"
	"github.com/litescript/ls-nightsky/internal/stats"
	"github.com/litescript/ls-nightsky/internal/version"
)

const (
	// footerHeight is the number of lines under the sky when the status
	// footer is shown.
	footerHeight = 2

	starStep = 100
	maxStars = 5000
)

// Msg types for Bubble Tea
type (
	// FrameMsg triggers one animation tick.
	FrameMsg time.Time
)

// Config describes the sky shown by the model.
type Config struct {
	Sky      sky.Options
	Stars    int
	Interval time.Duration
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	anim   *sky.Animator
	canvas *raster.Canvas
	stats  *stats.Manager
	log    *logging.Logger

	// Sky configuration
	skyWidth int
	stars    int
	interval time.Duration

	// UI state
	width      int
	height     int
	ready      bool
	paused     bool
	showStatus bool
	animTick   int

	// Animation clock. lastWall is zero until the first frame after a
	// start or resume.
	clock    time.Duration
	lastWall time.Time
}

// New creates a new root UI model. The sky is sized to the terminal on the
// first WindowSizeMsg.
func New(cfg Config, st *stats.Manager, log *logging.Logger) Model {
	if st == nil {
		st = stats.NewManager(stats.DefaultConfig())
	}
	if log == nil {
		log = logging.Discard()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}
	skyWidth := cfg.Sky.Width
	if skyWidth <= 0 {
		skyWidth = 1280
	}

	opts := cfg.Sky
	opts.Width, opts.Height = 0, 0
	canvas := raster.New(0, 0, 1)

	return Model{
		anim:       sky.New(canvas, opts),
		canvas:     canvas,
		stats:      st,
		log:        log,
		skyWidth:   skyWidth,
		stars:      clampStars(cfg.Stars),
		interval:   interval,
		showStatus: true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.interval)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ":
			m.paused = !m.paused
			m.lastWall = time.Time{}
			m.log.Debug("paused=%v", m.paused)

		case "c":
			enabled := !m.anim.Options().Constellations
			m.anim.SetConstellations(enabled)
			m.log.Debug("constellations=%v", enabled)

		case "r":
			m.repopulate()

		case "+", "=":
			m.stars = clampStars(m.stars + starStep)
			m.repopulate()

		case "-", "_":
			m.stars = clampStars(m.stars - starStep)
			m.repopulate()

		case "s":
			m.showStatus = !m.showStatus
			m.layout()
		}

	case tea.WindowSizeMsg:
		first := !m.ready
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		if first {
			m.anim.Populate(m.stars)
		}

	case FrameMsg:
		cmds = append(cmds, frameCmd(m.interval))
		m.animTick++
		if m.ready && !m.paused {
			m.advance(time.Time(msg))
		}
	}

	return m, tea.Batch(cmds...)
}

// advance moves the animation clock to wall and ticks the sky.
func (m *Model) advance(wall time.Time) {
	if !m.lastWall.IsZero() {
		if d := wall.Sub(m.lastWall); d > 0 {
			m.clock += d
		}
	}
	m.lastWall = wall

	info := m.anim.Tick(m.clock)
	m.stats.Record(info)
	if info.Spawned != nil {
		m.log.Debug("frame %d: constellation of %d stars", info.Frame, info.Spawned.Members)
	}
}

// layout fits the sky to the terminal: the logical width stays fixed and the
// logical height follows the terminal's aspect, two pixels per cell row.
func (m *Model) layout() {
	if !m.ready {
		return
	}

	rows := m.skyRows()
	if m.width <= 0 || rows <= 0 {
		m.canvas.SetScale(1)
		m.anim.Initialize(0, 0)
		return
	}

	scale := float64(m.width) / float64(m.skyWidth)
	height := int(math.Round(float64(rows*2) / scale))

	m.canvas.SetScale(scale)
	m.anim.Initialize(m.skyWidth, height)
	m.log.Debug("sky %dx%d in %dx%d cells", m.skyWidth, height, m.width, rows)
}

func (m *Model) repopulate() {
	m.anim.Populate(m.stars)
	m.stats.AddEvent(stats.Event{
		Type:   stats.EventRepopulate,
		Detail: fmt.Sprintf("%d stars", m.stars),
	})
}

func (m Model) skyRows() int {
	rows := m.height
	if m.showStatus {
		rows -= footerHeight
	}
	if rows < 0 {
		rows = 0
	}
	return rows
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	content := renderHalfBlocks(m.canvas.Image(), m.width, m.skyRows())
	if !m.showStatus {
		return content
	}
	return content + "\n" + m.renderFooter()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7eada"))

	snap := m.stats.Snapshot()

	var status string
	if m.paused {
		status = m.renderShimmerText("paused")
	} else {
		status = accentStyle.Render(fmt.Sprintf("%.0f fps", snap.FPS))
	}

	facts := fmt.Sprintf("frame %d | stars %d | wraps %d | %s",
		snap.Frames, snap.Stars, snap.Wraps, lastConstellation(snap.Events))

	first := renderTitle("ls-nightsky v"+version.Version) + "  " + status + "  " + dimStyle.Render(facts)
	help := dimStyle.Render("  q: quit | space: pause | c: constellations | r: reseed | +/-: stars | s: status")

	return first + "\n" + help
}

func lastConstellation(events []stats.Event) string {
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.Type != stats.EventConstellation {
			continue
		}
		shape := "open"
		if e.Closed {
			shape = "closed"
		}
		return fmt.Sprintf("last constellation: %d stars, %s, frame %d", e.Members, shape, e.Frame)
	}
	return "no constellation yet"
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	pos := m.animTick % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var hexColor string
		switch {
		case dist <= 1:
			hexColor = "#f7eada"
		case dist <= 3:
			hexColor = "#b8aea2"
		case dist <= 5:
			hexColor = "#7d766e"
		default:
			hexColor = "#4c4843"
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

// Stats returns the statistics the model records into.
func (m Model) Stats() *stats.Manager {
	return m.stats
}

// Animator returns the animator driven by the model.
func (m Model) Animator() *sky.Animator {
	return m.anim
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func clampStars(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxStars {
		return maxStars
	}
	return n
}
