// Package stats provides thread-safe frame statistics for the sky animation.
package stats

import (
	"sync"
	"time"

	"github.com/litescript/ls-nightsky/internal/sky"
)

// EventType represents the kind of animation event.
type EventType string

const (
	EventConstellation EventType = "CONSTELLATION"
	EventRepopulate    EventType = "REPOPULATE"
	EventPublishFailed EventType = "PUBLISH_FAILED"
)

// Event is a notable moment in the animation.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Frame     uint64    `json:"frame"`
	Members   int       `json:"members,omitempty"`
	Closed    bool      `json:"closed,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Config holds configuration for the stats manager.
type Config struct {
	MaxEvents int
	FPSWindow int // frames used for the rate estimate
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
		FPSWindow: 60,
	}
}

// Manager accumulates frame statistics. Record is called by the animation
// loop while views read Snapshot from other goroutines.
type Manager struct {
	mu sync.RWMutex

	frames         uint64
	wraps          uint64
	constellations uint64
	stars          int
	lastFrame      sky.FrameInfo

	// Tick timestamps for the rate estimate (ring buffer)
	times   []time.Duration
	window  int
	timesAt int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	now func() time.Time
}

// NewManager creates a new stats manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	window := cfg.FPSWindow
	if window < 2 {
		window = 60
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		window:    window,
		times:     make([]time.Duration, 0, window),
		now:       time.Now,
	}
}

// Record folds one tick into the totals.
func (m *Manager) Record(info sky.FrameInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames++
	m.wraps += uint64(info.Wrapped)
	m.stars = info.Stars
	m.lastFrame = info

	if len(m.times) < m.window {
		m.times = append(m.times, info.Now)
	} else {
		m.times[m.timesAt] = info.Now
		m.timesAt = (m.timesAt + 1) % m.window
	}

	if info.Spawned != nil {
		m.constellations++
		m.addEvent(Event{
			Type:      EventConstellation,
			Timestamp: m.now(),
			Frame:     info.Frame,
			Members:   info.Spawned.Members,
			Closed:    info.Spawned.Closed,
		})
	}
}

// AddEvent appends an event raised outside the animation loop.
func (m *Manager) AddEvent(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = m.now()
	}
	if e.Frame == 0 {
		e.Frame = m.lastFrame.Frame
	}
	m.addEvent(e)
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of the totals.
type Snapshot struct {
	Frames         uint64
	Wraps          uint64
	Constellations uint64
	Stars          int
	FPS            float64
	LastFrame      sky.FrameInfo
	Events         []Event
}

// Snapshot returns a consistent snapshot of the totals.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Frames:         m.frames,
		Wraps:          m.wraps,
		Constellations: m.constellations,
		Stars:          m.stars,
		FPS:            m.fps(),
		LastFrame:      m.lastFrame,
		Events:         m.getEventsOrdered(),
	}
}

// fps estimates the tick rate over the window, measured on animation time.
func (m *Manager) fps() float64 {
	n := len(m.times)
	if n < 2 {
		return 0
	}

	oldest, newest := m.times[0], m.times[n-1]
	if n == m.window {
		oldest = m.times[m.timesAt]
		newest = m.times[(m.timesAt+n-1)%n]
	}

	span := (newest - oldest).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(n-1) / span
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Reset clears the totals and the event log.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames, m.wraps, m.constellations, m.stars = 0, 0, 0, 0
	m.lastFrame = sky.FrameInfo{}
	m.times = m.times[:0]
	m.timesAt = 0
	m.events = m.events[:0]
	m.eventWriteAt = 0
}
