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

package platform

// Register indices into a RegisterFile, matching the R0..R12, SP, LR, PC,
// CPSR ordering described by the register-file snapshot.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	SP
	LR
	PC
	CPSR

	NumRegisters
)

// RegisterFile is the ordered snapshot of the 17 ARM registers the stub
// treats as the single source of truth for program state between traps. On
// entry the exception trampoline populates R0..R14 from the banked
// user-mode registers, PC from the faulted instruction address plus the
// architectural offset, and CPSR from the SPSR of the exception mode. The
// stub writes this snapshot back verbatim on resume.
type RegisterFile [NumRegisters]uint32

// Clone returns an independent copy of the register file, used by the step
// planner so that the "architectural current PC" adjustment it makes
// before calling a decoder never leaks back into the snapshot the protocol
// dispatcher hands to the host.
func (r RegisterFile) Clone() RegisterFile {
	var c RegisterFile
	copy(c[:], r[:])
	return c
}

// Thumb reports whether the T-bit (bit 5) of CPSR is set, i.e. whether the
// processor is in Thumb state.
func (r RegisterFile) Thumb() bool {
	return r[CPSR]&0x20 != 0
}
