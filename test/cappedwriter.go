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

package test

import "armdbgstub/curated"

// CappedWriter is an io.Writer that accepts writes only up to a fixed
// capacity; bytes beyond that are silently dropped. Unlike RingWriter it
// keeps the oldest bytes, not the newest.
type CappedWriter struct {
	buffer []byte
}

// NewCappedWriter is the preferred method of initialisation for the
// CappedWriter type. Capacity must be greater than zero.
func NewCappedWriter(capacity int) (*CappedWriter, error) {
	if capacity <= 0 {
		return nil, curated.Errorf("cappedwriter: capacity must be greater than zero")
	}
	return &CappedWriter{buffer: make([]byte, 0, capacity)}, nil
}

// Write implements the io.Writer interface.
func (c *CappedWriter) Write(p []byte) (int, error) {
	room := cap(c.buffer) - len(c.buffer)
	if room <= 0 {
		return len(p), nil
	}
	if len(p) > room {
		p = p[:room]
	}
	c.buffer = append(c.buffer, p...)
	return len(p), nil
}

// String returns the currently retained contents.
func (c *CappedWriter) String() string {
	return string(c.buffer)
}

// Reset discards any retained contents.
func (c *CappedWriter) Reset() {
	c.buffer = c.buffer[:0]
}
