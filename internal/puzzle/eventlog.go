package puzzle

import (
	"fmt"
	"strings"
)

// Event categories recorded by the engine.
const (
	CatPuzzle = "puzzle" // built, shuffle_start, shuffle_commit, complete, reset
	CatDrag   = "drag"   // start, drop, preempt, ignored
	CatSlot   = "slot"   // assign, swap, snapback, reject
	CatPiece  = "piece"  // placed, move
)

// LogEntry is one recorded engine event.
type LogEntry struct {
	Tick     int
	Piece    string // "P07", or "--" for assembly-wide events
	Category string
	Key      string
	Value    string
	NumVal   float64
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] P07  slot      swap             P03 -> slot 5
func (e LogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Piece, e.Category, e.Key, e.Value)
}

// EventLog is an unbounded, machine-readable record of engine activity,
// used by tests and the headless report.
type EventLog struct {
	entries []LogEntry
	verbose bool
}

// NewEventLog creates an EventLog. Verbose also records per-tick moves.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

func pieceLabel(id int) string {
	if id < 0 {
		return "--"
	}
	return fmt.Sprintf("P%02d", id)
}

// Add records a new entry. A nil log discards it.
func (l *EventLog) Add(tick, piece int, category, key, value string, num float64) {
	if l == nil {
		return
	}
	l.entries = append(l.entries, LogEntry{
		Tick:     tick,
		Piece:    pieceLabel(piece),
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   num,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (l *EventLog) AddVerbose(tick, piece int, category, key, value string, num float64) {
	if l == nil || !l.verbose {
		return
	}
	l.Add(tick, piece, category, key, value, num)
}

func (l *EventLog) Entries() []LogEntry {
	return l.entries
}

// Filter returns entries matching category and key. Empty matches any.
func (l *EventLog) Filter(category, key string) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterPiece returns entries for one piece id.
func (l *EventLog) FilterPiece(id int) []LogEntry {
	label := pieceLabel(id)
	var out []LogEntry
	for _, e := range l.entries {
		if e.Piece == label {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key.
func (l *EventLog) LastOf(category, key string) (LogEntry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return LogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if an entry matches category, key and value substring.
func (l *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Reset drops every entry.
func (l *EventLog) Reset() { l.entries = l.entries[:0] }

// Format returns the full log as a single string for t.Log output.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
