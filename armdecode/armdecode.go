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

package armdecode

import (
	"armdbgstub/platform"
)

// MemoryReader is the narrow memory-read capability the decoder needs to
// follow an LDR-to-PC or LDM/PC load: the actual destination address lives
// in memory, not in the opcode or the register file.
type MemoryReader interface {
	ReadWord(addr uint32) uint32
}

// Result is the outcome of decoding one ARM opcode.
type Result struct {
	// Branches is true if the instruction writes R15.
	Branches bool

	// DestKnown is false when Branches is true but the destination could
	// not be computed exactly (the data-processing-writes-PC case, absent
	// a full barrel-shifter emulation). Callers must treat this as "some
	// address other than the linear successor", not as "no branch".
	DestKnown bool

	// Dest is the destination address, valid only when DestKnown.
	Dest uint32

	// NewThumb is the instruction state (Thumb if true) at Dest, valid
	// only when DestKnown.
	NewThumb bool
}

const conditionExtendedSpace = 0xf0000000

type matcher struct {
	mask, value uint32
	decode      func(opcode uint32, regs platform.RegisterFile, mem MemoryReader) Result
}

// conditional-space table: entries considered when bits 31..28 are not all
// set (i.e. this is not the BLX1 extended encoding).
var conditionalTable = []matcher{
	{mask: 0x0e000000, value: 0x0a000000, decode: decodeB_BL},
	{mask: 0x0ffffff0, value: 0x012fff30, decode: decodeBLX2_BX}, // BLX2
	{mask: 0x0ffffff0, value: 0x012fff10, decode: decodeBLX2_BX}, // BX
	{mask: 0x0c50f000, value: 0x0410f000, decode: decodeLDRtoPC},
	{mask: 0x0e108000, value: 0x08108000, decode: decodeLDMwithPC},
	{mask: 0x0de0f000, value: 0x0080f000, decode: decodeADDtoPC},
}

// extended-space table: entries considered only when bits 31..28 are all
// set (cond field 0xF), the space the architecture reserves for
// unconditional instructions such as BLX1.
var extendedTable = []matcher{
	{mask: 0xfe000000, value: 0xfa000000, decode: decodeBLX1},
}

// Decode decodes opcode, a 32-bit ARM instruction word, against the saved
// register file regs (whose PC field must already hold the architectural
// "current PC", i.e. the address of opcode plus 8) and mem, used only by
// the load-to-PC variants. The caller is assumed to have already
// established, via package condition, that opcode will actually execute;
// Decode performs no condition check of its own.
func Decode(opcode uint32, regs platform.RegisterFile, mem MemoryReader) Result {
	table := conditionalTable
	if opcode&0xf0000000 == conditionExtendedSpace {
		table = extendedTable
	}

	for _, m := range table {
		if opcode&m.mask == m.value {
			return m.decode(opcode, regs, mem)
		}
	}

	return Result{}
}

func signExtend24To32(v uint32) uint32 {
	if v&0x00800000 != 0 {
		return v | 0xff000000
	}
	return v
}

// B / BL: mask 0x0E000000, value 0x0A000000.
func decodeB_BL(opcode uint32, regs platform.RegisterFile, _ MemoryReader) Result {
	imm := signExtend24To32(opcode&0xffffff) << 2
	dest := regs[platform.PC] + imm
	return Result{Branches: true, DestKnown: true, Dest: dest, NewThumb: regs.Thumb()}
}

// BLX1, extended space only: mask 0xFE000000, value 0xFA000000.
func decodeBLX1(opcode uint32, regs platform.RegisterFile, _ MemoryReader) Result {
	imm := signExtend24To32(opcode&0xffffff) << 2
	h := uint32(0)
	if opcode&0x01000000 != 0 {
		h = 1 << 1
	}
	dest := regs[platform.PC] + imm + h
	return Result{Branches: true, DestKnown: true, Dest: dest, NewThumb: true}
}

// BLX2 / BX: masks 0x0FFFFFF0, values 0x012FFF30 / 0x012FFF10.
func decodeBLX2_BX(opcode uint32, regs platform.RegisterFile, _ MemoryReader) Result {
	rm := regs[opcode&0xf]
	return Result{
		Branches:  true,
		DestKnown: true,
		Dest:      rm &^ 1,
		NewThumb:  rm&1 != 0,
	}
}

// LDR with Rd=R15: mask 0x0C50F000, value 0x0410F000.
func decodeLDRtoPC(opcode uint32, regs platform.RegisterFile, mem MemoryReader) Result {
	rn := (opcode >> 16) & 0xf
	base := regs[rn]

	const (
		pBit = 1 << 24
		uBit = 1 << 23
		iBit = 1 << 25
	)

	if opcode&pBit != 0 {
		var offset uint32

		if opcode&iBit != 0 {
			rm := regs[opcode&0xf]
			shiftImm := (opcode >> 7) & 0x1f
			shiftType := (opcode >> 5) & 0x3

			if opcode&0xff0 != 0 {
				switch shiftType {
				case 0x0: // LSL
					offset = rm << shiftImm
				case 0x1: // LSR
					if shiftImm > 0 {
						offset = rm >> shiftImm
					}
				case 0x2: // ASR
					if shiftImm == 0 {
						if rm&0x80000000 != 0 {
							offset = 0xffffffff
						}
					} else {
						offset = uint32(int32(rm) >> shiftImm)
					}
				case 0x3: // ROR / RRX
					if shiftImm == 0 {
						offset = rm >> 1
						if regs[platform.CPSR]&0x20000000 != 0 {
							offset |= 0x80000000
						}
					} else {
						offset = (rm >> shiftImm) | (rm << (32 - shiftImm))
					}
				}
			} else {
				offset = rm
			}
		} else {
			offset = opcode & 0xfff
		}

		if opcode&uBit != 0 {
			base += offset
		} else {
			base -= offset
		}
	}
	// post-indexed (P bit clear): the base register, unchanged, is the
	// effective address; the writeback happens after the load.

	dest := mem.ReadWord(base)
	return Result{
		Branches:  true,
		DestKnown: true,
		Dest:      dest &^ 1,
		NewThumb:  dest&1 != 0,
	}
}

// LDM with R15 in the register list: mask 0x0E108000, value 0x08108000.
func decodeLDMwithPC(opcode uint32, regs platform.RegisterFile, mem MemoryReader) Result {
	rn := (opcode >> 16) & 0xf
	addr := regs[rn]

	regList := opcode & 0xffff
	count := 0
	for rl := regList; rl != 0; rl >>= 1 {
		if rl&1 != 0 {
			count++
		}
	}

	const (
		pBit = 1 << 24
		uBit = 1 << 23
		sBit = 1 << 22
	)

	switch {
	case opcode&pBit != 0 && opcode&uBit != 0: // increment before
		addr += uint32(count) * 4
	case opcode&pBit != 0: // decrement before
		addr -= 4
	case opcode&uBit != 0: // increment after
		addr += uint32(count)*4 - 4
	default: // decrement after: no change
	}

	dest := mem.ReadWord(addr)

	if opcode&sBit != 0 {
		// S-bit LDM additionally restores CPSR from the banked SPSR of
		// the interrupted mode; this module does not have access to
		// that banked value, so the destination below is reported as
		// known but the new Thumb state is derived the same way a
		// non-S-bit LDM would, which is an approximation callers should
		// be aware of (see DESIGN.md).
	}

	return Result{
		Branches:  true,
		DestKnown: true,
		Dest:      dest &^ 1,
		NewThumb:  dest&1 != 0,
	}
}

// Data-processing write to PC, e.g. ADD Rd,Rn,#imm/Rm with Rd=R15: mask
// 0x0DE0F000, value 0x0080F000. A full barrel-shifter evaluation of the
// second operand is required to compute this destination exactly; absent
// that, the destination is conservatively reported unknown rather than
// silently wrong (see the open question in the design notes).
func decodeADDtoPC(_ uint32, _ platform.RegisterFile, _ MemoryReader) Result {
	return Result{Branches: true, DestKnown: false}
}
