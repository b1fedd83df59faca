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

package stepplan_test

import (
	"testing"

	"armdbgstub/platform"
	"armdbgstub/stepplan"
	"armdbgstub/test"
)

type fakeMem struct {
	words     map[uint32]uint32
	halfwords map[uint32]uint16
}

func (m fakeMem) ReadWord(addr uint32) uint32 { return m.words[addr] }
func (m fakeMem) ReadHalfword(addr uint32) uint16 {
	return m.halfwords[addr]
}

func TestStepOverBL(t *testing.T) {
	// BL to 0x02000044 from 0x02000000: dest = (instrAddr+8) + (imm24<<2),
	// so imm24 = (0x02000044 - 0x02000008) >> 2 = 0x0f.
	const instrAddr = 0x02000000
	const opcode = 0xeb000000 | 0x0f

	mem := fakeMem{words: map[uint32]uint32{instrAddr: opcode}}

	var regs platform.RegisterFile
	r := stepplan.Plan(instrAddr, false, 0, regs, mem)

	test.ExpectEquality(t, r.Next, uint32(0x02000044))
	test.ExpectEquality(t, r.NextThumb, false)
	test.ExpectEquality(t, r.Uncertain, false)
}

func TestStepLinearSuccessorARM(t *testing.T) {
	const instrAddr = 0x02000000
	const opcode = 0xe1a00000 // MOV R0,R0, always executes

	mem := fakeMem{words: map[uint32]uint32{instrAddr: opcode}}

	var regs platform.RegisterFile
	r := stepplan.Plan(instrAddr, false, 0, regs, mem)
	test.ExpectEquality(t, r.Next, uint32(instrAddr+4))
}

func TestStepConditionNotMet(t *testing.T) {
	const instrAddr = 0x02000000
	// BEQ: the conditional-space B encoding with condition EQ (cond=0x0).
	const opcode = 0x0a000010

	mem := fakeMem{words: map[uint32]uint32{instrAddr: opcode}}

	var regs platform.RegisterFile
	// Z clear: EQ not satisfied, so the branch does not execute.
	r := stepplan.Plan(instrAddr, false, 0, regs, mem)
	test.ExpectEquality(t, r.Next, uint32(instrAddr+4))
}

func TestStepADDtoPCUncertain(t *testing.T) {
	const instrAddr = 0x02000000
	const opcode = 0xe08ff001 // ADD PC, R15, R1 (AL), Rd=R15

	mem := fakeMem{words: map[uint32]uint32{instrAddr: opcode}}

	var regs platform.RegisterFile
	r := stepplan.Plan(instrAddr, false, 0xe0000000, regs, mem)
	test.ExpectEquality(t, r.Uncertain, true)
	test.ExpectEquality(t, r.Next, uint32(instrAddr+4))
}

func TestStepThumbPopWithPC(t *testing.T) {
	const instrAddr = 0x02000100

	mem := fakeMem{
		halfwords: map[uint32]uint16{instrAddr: 0xbd01},
		words:     map[uint32]uint32{0x0380fffc: 0x02002001},
	}

	var regs platform.RegisterFile
	regs[platform.SP] = 0x0380fff8

	r := stepplan.Plan(instrAddr, true, 0, regs, mem)
	test.ExpectEquality(t, r.Next, uint32(0x02002000))
	test.ExpectEquality(t, r.NextThumb, true)
}

func TestStepThumbLinearSuccessor(t *testing.T) {
	const instrAddr = 0x02000100
	mem := fakeMem{halfwords: map[uint32]uint16{instrAddr: 0x1c00}} // ADD R0,R0,#0

	var regs platform.RegisterFile
	r := stepplan.Plan(instrAddr, true, 0, regs, mem)
	test.ExpectEquality(t, r.Next, uint32(instrAddr+2))
	test.ExpectEquality(t, r.NextThumb, true)
}
