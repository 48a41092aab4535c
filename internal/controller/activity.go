package controller

// activityLog is a fixed-size ring of recent human-readable events, surfaced
// in the state snapshot for the polling UI's status console.
type activityLog struct {
	entries []string
	next    int
	full    bool
}

func newActivityLog(capacity int) *activityLog {
	if capacity <= 0 {
		capacity = 20
	}
	return &activityLog{entries: make([]string, capacity)}
}

func (a *activityLog) add(entry string) {
	a.entries[a.next] = entry
	a.next = (a.next + 1) % len(a.entries)
	if a.next == 0 {
		a.full = true
	}
}

// list returns the log newest-first.
func (a *activityLog) list() []string {
	size := a.next
	if a.full {
		size = len(a.entries)
	}
	out := make([]string, 0, size)
	for i := 1; i <= size; i++ {
		idx := (a.next - i + len(a.entries)) % len(a.entries)
		out = append(out, a.entries[idx])
	}
	return out
}
