// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-orrery/internal/planetdata"
)

// EventType represents the type of transport change event.
type EventType string

const (
	EventPaused   EventType = "PAUSED"
	EventResumed  EventType = "RESUMED"
	EventReversed EventType = "REVERSED"
	EventSpeedSet EventType = "SPEED_SET"
)

// Event represents a change of the shared speed multiplier.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Tick      uint64    `json:"tick"`
	OldSpeed  float64   `json:"old_speed"`
	NewSpeed  float64   `json:"new_speed"`
	Source    string    `json:"source,omitempty"`
}

// Manager handles all shared application state with thread-safe access.
// The planet data loader writes from its own goroutine; the UI reads.
type Manager struct {
	mu sync.RWMutex

	// Planet data load
	dataset      *planetdata.Dataset
	loadedAt     time.Time
	loadError    error
	loadDuration time.Duration

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	frameInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents     int
	FrameInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:     50,
		FrameInterval: 16 * time.Millisecond, // ~60 fps
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
		frameInterval: cfg.FrameInterval,
	}
}

// SetDataset records the outcome of loading the planet data.
func (m *Manager) SetDataset(ds *planetdata.Dataset, loadDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadedAt = time.Now()
	m.loadError = err
	m.loadDuration = loadDuration

	if ds == nil {
		return
	}
	m.dataset = ds
}

// RecordSpeed classifies a speed change and logs it. Changes that leave the
// speed where it was are not recorded.
func (m *Manager) RecordSpeed(tick uint64, oldSpeed, newSpeed float64, source string) (Event, bool) {
	typ, ok := ClassifySpeedChange(oldSpeed, newSpeed)
	if !ok {
		return Event{}, false
	}
	e := Event{
		Type:      typ,
		Timestamp: time.Now(),
		Tick:      tick,
		OldSpeed:  oldSpeed,
		NewSpeed:  newSpeed,
		Source:    source,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(e)
	return e, true
}

// ClassifySpeedChange names a transition of the speed multiplier.
func ClassifySpeedChange(oldSpeed, newSpeed float64) (EventType, bool) {
	switch {
	case oldSpeed == newSpeed:
		return "", false
	case newSpeed == 0:
		return EventPaused, true
	case oldSpeed == 0:
		return EventResumed, true
	case (oldSpeed < 0) != (newSpeed < 0):
		return EventReversed, true
	default:
		return EventSpeedSet, true
	}
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

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Dataset      *planetdata.Dataset
	LoadedAt     time.Time
	LoadError    error
	LoadDuration time.Duration
	Events       []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Dataset:      m.dataset,
		LoadedAt:     m.loadedAt,
		LoadError:    m.loadError,
		LoadDuration: m.loadDuration,
		Events:       m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
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

// FrameInterval returns the configured frame interval.
func (m *Manager) FrameInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frameInterval
}

// SetFrameInterval updates the frame interval.
func (m *Manager) SetFrameInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frameInterval = d
}

// HasData returns true once the planet data has loaded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dataset != nil
}
