// This file is part of armdbgstub.
//
// armdbgstub is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// armdbgstub is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with armdbgstub.  If not, see <https://www.gnu.org/licenses/>.

// Package logger implements a small ring-buffered central logger. Entries are tagged and permission
// gated so that callers on a hot path (the trap handler in particular) can
// cheaply suppress logging without the caller having to branch on a global
// verbosity flag.
package logger

import (
	"container/ring"
	"fmt"
	"io"
	"sync"
)

// Permission is consulted by Log/Logf before an entry is recorded. This lets
// a caller silence noisy tags (or silence everything) without touching the
// logger itself.
type Permission interface {
	AllowLogging() bool
}

type allowAll struct{}

func (allowAll) AllowLogging() bool { return true }

// Allow is a Permission value that always allows logging.
var Allow = allowAll{}

type entry struct {
	tag    string
	detail string
}

func (e entry) String() string {
	return fmt.Sprintf("%s: %s\n", e.tag, e.detail)
}

// Logger is a fixed-capacity ring of log entries. The zero value is not
// usable; construct with NewLogger.
type Logger struct {
	crit sync.Mutex
	cap  int
	r    *ring.Ring
	len  int
}

// NewLogger is the preferred method of initialisation for the Logger type.
// Capacity must be greater than zero.
func NewLogger(capacity int) *Logger {
	return &Logger{
		cap: capacity,
		r:   ring.New(capacity),
	}
}

func formatDetail(detail interface{}) string {
	switch d := detail.(type) {
	case error:
		return d.Error()
	case fmt.Stringer:
		return d.String()
	case string:
		return d
	default:
		return fmt.Sprintf("%v", d)
	}
}

// Log records a new entry if permission allows it. detail may be a string,
// an error (Error() is used), a fmt.Stringer (String() is used), or any
// other value (formatted with the %v verb).
func (l *Logger) Log(permission Permission, tag string, detail interface{}) {
	if !permission.AllowLogging() {
		return
	}
	l.push(tag, formatDetail(detail))
}

// Logf is like Log but the detail is built from a format string, the way
// fmt.Sprintf does.
func (l *Logger) Logf(permission Permission, tag string, format string, args ...interface{}) {
	if !permission.AllowLogging() {
		return
	}
	l.push(tag, fmt.Sprintf(format, args...))
}

func (l *Logger) push(tag, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	l.r.Value = entry{tag: tag, detail: detail}
	l.r = l.r.Next()
	if l.len < l.cap {
		l.len++
	}
}

// Clear discards all recorded entries.
func (l *Logger) Clear() {
	l.crit.Lock()
	defer l.crit.Unlock()

	l.r = ring.New(l.cap)
	l.len = 0
}

// Write writes every recorded entry, oldest first, to w.
func (l *Logger) Write(w io.Writer) {
	l.Tail(w, l.cap)
}

// Tail writes the most recent n entries, oldest first, to w. Asking for more
// entries than are recorded is not an error; the full history is written.
func (l *Logger) Tail(w io.Writer, n int) {
	l.crit.Lock()
	defer l.crit.Unlock()

	if n > l.len {
		n = l.len
	}
	if n <= 0 {
		return
	}

	// walk back n entries from the write cursor, then forward again so
	// entries come out oldest-first
	start := l.r
	for i := 0; i < n; i++ {
		start = start.Prev()
	}

	start.Do(func(v interface{}) {
		if n <= 0 {
			return
		}
		if e, ok := v.(entry); ok {
			io.WriteString(w, e.String())
			n--
		}
	})
}
