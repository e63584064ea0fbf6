// Package tui provides the Bubble Tea playground for the dispatch engine.
package tui

// History is a bounded command-history buffer with cursor navigation.
type History struct {
	entries []string
	max     int
	cursor  int // -1 = not navigating, otherwise index into entries
}

// NewHistory creates a history buffer holding at most max commands.
func NewHistory(max int) *History {
	return &History{max: max, cursor: -1}
}

// Push records a command. Consecutive duplicates are skipped.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Prev moves to the previous (older) entry.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next moves to the next (newer) entry; past the newest it returns
// ("", false) and the cursor resets to fresh input.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor returns the cursor to the "not navigating" state.
func (h *History) ResetCursor() {
	h.cursor = -1
}
