package domain

import "time"

const DefaultRetention = 15 * time.Second

// MessageLog keeps chat entries newest-first. It is not safe for concurrent
// use; callers serialize access.
type MessageLog struct {
	retention time.Duration
	entries   []ChatMessage
}

func NewMessageLog(retention time.Duration) *MessageLog {
	if retention <= 0 {
		retention = DefaultRetention
	}

	return &MessageLog{retention: retention}
}

func (l *MessageLog) Append(msg ChatMessage) {
	l.entries = append(l.entries, ChatMessage{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = msg
}

// Sweep drops every entry older than the retention window and reports how
// many were removed.
func (l *MessageLog) Sweep(now time.Time) int {
	if len(l.entries) == 0 {
		return 0
	}

	cutoff := now.Add(-l.retention)
	kept := l.entries[:0]
	for _, entry := range l.entries {
		if entry.CreatedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, entry)
	}

	removed := len(l.entries) - len(kept)
	clear(l.entries[len(kept):])
	l.entries = kept

	return removed
}

func (l *MessageLog) Entries() []ChatMessage {
	entries := make([]ChatMessage, len(l.entries))
	copy(entries, l.entries)
	return entries
}

func (l *MessageLog) Len() int {
	return len(l.entries)
}

func (l *MessageLog) Retention() time.Duration {
	return l.retention
}

func (l *MessageLog) Reset() {
	l.entries = nil
}
