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

package stub

// RawMemory is the byte-level access the platform provides to the target's
// address space.
type RawMemory interface {
	ReadByte(addr uint32) uint8
	WriteByte(addr uint32, v uint8)
}

// GuardedMemory wraps a RawMemory with the safe-floor predicate every
// protocol-driven memory access must pass: addresses below floor read as
// zero and ignore writes, a safety net against aborting on bad host input
// rather than a correctness guarantee. It assembles halfword/word accesses
// little-endian, matching the target's native byte order.
type GuardedMemory struct {
	raw   RawMemory
	floor uint32
}

// NewGuardedMemory returns a GuardedMemory rejecting any address below
// floor.
func NewGuardedMemory(raw RawMemory, floor uint32) *GuardedMemory {
	return &GuardedMemory{raw: raw, floor: floor}
}

// InRange reports whether addr is at or above the safe floor.
func (g *GuardedMemory) InRange(addr uint32) bool {
	return addr >= g.floor
}

// ReadByte returns 0 for an address below the floor instead of dereferencing it.
func (g *GuardedMemory) ReadByte(addr uint32) uint8 {
	if !g.InRange(addr) {
		return 0
	}
	return g.raw.ReadByte(addr)
}

// WriteByte silently drops a write to an address below the floor.
func (g *GuardedMemory) WriteByte(addr uint32, v uint8) {
	if !g.InRange(addr) {
		return
	}
	g.raw.WriteByte(addr, v)
}

func (g *GuardedMemory) ReadHalfword(addr uint32) uint16 {
	lo := g.ReadByte(addr)
	hi := g.ReadByte(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (g *GuardedMemory) WriteHalfword(addr uint32, v uint16) {
	g.WriteByte(addr, byte(v))
	g.WriteByte(addr+1, byte(v>>8))
}

func (g *GuardedMemory) ReadWord(addr uint32) uint32 {
	b0 := g.ReadByte(addr)
	b1 := g.ReadByte(addr + 1)
	b2 := g.ReadByte(addr + 2)
	b3 := g.ReadByte(addr + 3)
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}

func (g *GuardedMemory) WriteWord(addr uint32, v uint32) {
	g.WriteByte(addr, byte(v))
	g.WriteByte(addr+1, byte(v>>8))
	g.WriteByte(addr+2, byte(v>>16))
	g.WriteByte(addr+3, byte(v>>24))
}
