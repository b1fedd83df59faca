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

package thumbdecode

import (
	"armdbgstub/condition"
	"armdbgstub/platform"
)

// MemoryReader is the narrow memory-read capability needed to follow a POP
// with R15 in the register list: the destination lives on the stack, not in
// the opcode or the register file.
type MemoryReader interface {
	ReadWord(addr uint32) uint32
}

// Result is the outcome of decoding one Thumb halfword. It mirrors
// armdecode.Result field-for-field so a caller composing both decoders (see
// package stepplan) can treat them uniformly, but the two types are kept
// distinct: nothing in this package depends on armdecode or vice versa.
type Result struct {
	// Branches is true if the instruction writes R15 and, for the
	// conditional-branch encoding, the condition was actually satisfied.
	Branches bool

	// DestKnown is always true when Branches is true: every Thumb
	// PC-writing encoding here has a fully computable destination.
	DestKnown bool

	Dest     uint32
	NewThumb bool
}

type matcher struct {
	mask, value uint16
	decode      func(opcode uint16, regs platform.RegisterFile, mem MemoryReader) Result
}

var table = []matcher{
	{mask: 0xf000, value: 0xd000, decode: decodeCondB},
	{mask: 0xf800, value: 0xe000, decode: decodeB},
	{mask: 0xf800, value: 0xf800, decode: decodeBL_BLX1},
	{mask: 0xf800, value: 0xe800, decode: decodeBL_BLX1},
	{mask: 0xff87, value: 0x4700, decode: decodeBX_BLX2},
	{mask: 0xff87, value: 0x4780, decode: decodeBX_BLX2},
	{mask: 0xff00, value: 0xbd00, decode: decodePOP},
	{mask: 0xff87, value: 0x4687, decode: decodeMOVtoPC},
	{mask: 0xff87, value: 0x4487, decode: decodeADDtoPC},
}

// Decode decodes opcode, a 16-bit Thumb instruction halfword, against the
// register file regs (whose PC field must already hold the architectural
// "current PC", i.e. the address of opcode plus 4, and whose CPSR field
// holds the flags the B<cond> encoding tests) and mem, used only by the POP
// variant.
func Decode(opcode uint16, regs platform.RegisterFile, mem MemoryReader) Result {
	for _, m := range table {
		if opcode&m.mask == m.value {
			return m.decode(opcode, regs, mem)
		}
	}
	return Result{}
}

func signExtend8To32(v uint32) uint32 {
	if v&0x80 != 0 {
		return v | 0xffffff00
	}
	return v
}

func signExtend11To32(v uint32) uint32 {
	if v&0x400 != 0 {
		return v | 0xfffff800
	}
	return v
}

// B<cond>: mask 0xF000, value 0xD000. Condition field 0xF is reserved (the
// SWI encoding lives there), never a branch.
func decodeCondB(opcode uint16, regs platform.RegisterFile, _ MemoryReader) Result {
	cond := uint8((opcode & 0x0f00) >> 8)
	if cond == 0xf {
		return Result{}
	}
	if !condition.Evaluate(cond, regs[platform.CPSR]) {
		return Result{}
	}

	change := signExtend8To32(uint32(opcode&0xff)) << 1
	dest := regs[platform.PC] + change
	return Result{Branches: true, DestKnown: true, Dest: dest, NewThumb: true}
}

// B: mask 0xF800, value 0xE000.
func decodeB(opcode uint16, regs platform.RegisterFile, _ MemoryReader) Result {
	change := signExtend11To32(uint32(opcode&0x7ff)) << 1
	dest := regs[platform.PC] + change
	return Result{Branches: true, DestKnown: true, Dest: dest, NewThumb: true}
}

// BL / BLX1: mask 0xF800, values 0xF800 and 0xE800. The destination is
// computed from LR, not PC: these two halfwords only ever appear as the
// second half of a BL/BLX pair, and the first half is expected to have
// already set LR to PC + imm<<12 before this halfword executes.
func decodeBL_BLX1(opcode uint16, regs platform.RegisterFile, _ MemoryReader) Result {
	change := uint32(opcode&0x7ff) << 1
	dest := regs[platform.LR] + change
	newThumb := true

	const (
		hMask = 0x1800
		h01   = 0x0800
	)
	if opcode&hMask == h01 {
		dest &^= 0x3
		newThumb = false
	}

	return Result{Branches: true, DestKnown: true, Dest: dest, NewThumb: newThumb}
}

// BX / BLX2: mask 0xFF87, values 0x4700 and 0x4780.
func decodeBX_BLX2(opcode uint16, regs platform.RegisterFile, _ MemoryReader) Result {
	rm := (opcode & 0x0078) >> 3
	value := regs[rm]
	return Result{Branches: true, DestKnown: true, Dest: value &^ 1, NewThumb: value&1 != 0}
}

// POP with R15 in the register list: mask 0xFF00, value 0xBD00.
func decodePOP(opcode uint16, regs platform.RegisterFile, mem MemoryReader) Result {
	regList := opcode & 0xff
	count := 0
	for rl := regList; rl != 0; rl >>= 1 {
		if rl&1 != 0 {
			count++
		}
	}

	addr := regs[platform.SP] + uint32(count)*4
	dest := mem.ReadWord(addr)
	return Result{Branches: true, DestKnown: true, Dest: dest &^ 1, NewThumb: dest&1 != 0}
}

// MOV to PC, high-register form: mask 0xFF87, value 0x4687.
func decodeMOVtoPC(opcode uint16, regs platform.RegisterFile, _ MemoryReader) Result {
	rm := (opcode & 0x0078) >> 3
	return Result{Branches: true, DestKnown: true, Dest: regs[rm], NewThumb: true}
}

// ADD to PC, high-register form: mask 0xFF87, value 0x4487.
func decodeADDtoPC(opcode uint16, regs platform.RegisterFile, _ MemoryReader) Result {
	rm := (opcode & 0x0078) >> 3
	return Result{Branches: true, DestKnown: true, Dest: regs[platform.PC] + regs[rm], NewThumb: true}
}
