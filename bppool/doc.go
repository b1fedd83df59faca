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

// Package bppool is the software-breakpoint manager: a fixed arena of
// breakpoint records and the four lists (free, active, stepping, disabled)
// that partition it. A record moves between lists by index splice, never by
// copy, so install/remove bulk operations and the trap-entry interleaving
// policy can run in O(1) per record.
//
// Each record holds a next-index into the backing array rather than a raw
// pointer, which keeps the splice/detach operations O(1) without pointer
// aliasing and gives free bounds checking.
package bppool
