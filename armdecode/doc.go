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

// Package armdecode decodes a single 32-bit ARM instruction word far enough
// to answer one question: does it write the program counter, and if so,
// to what address and in what instruction state (ARM or Thumb)? It does not
// implement general instruction execution or condition checking — the
// caller is expected to have already established that the instruction will
// execute (see package condition) before calling Decode.
//
// Decoding walks an ordered list of mask/value pairs, first match wins,
// with one decode function per handled encoding group. The entries follow
// the ARM architecture reference; any word matching none of them is
// reported as not writing the program counter.
package armdecode
