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

package stepplan

import (
	"armdbgstub/armdecode"
	"armdbgstub/condition"
	"armdbgstub/platform"
	"armdbgstub/thumbdecode"
)

// Memory is the read access the planner and the decoders it drives need:
// the 32-bit opcode or 16-bit halfword at the instruction address, plus
// whatever word a load-to-PC variant dereferences.
type Memory interface {
	ReadWord(addr uint32) uint32
	ReadHalfword(addr uint32) uint16
}

// Result is the outcome of planning a single step.
type Result struct {
	// Next is the address that must be armed with a trap.
	Next uint32

	// NextThumb is the instruction width (Thumb if true) Next must be
	// armed with; it is the taken destination's state when the plan
	// followed a branch, and the current state unchanged otherwise.
	NextThumb bool

	// Uncertain is true only for the data-processing-writes-PC case this
	// module cannot evaluate exactly (see armdecode's ADD-to-PC entry).
	// Next still holds a best-effort fallback (the linear successor) so a
	// caller that ignores this flag still makes forward progress, but a
	// caller that wants correctness should treat Uncertain as "refuse the
	// step" and report failure to the host rather than silently trust
	// Next.
	Uncertain bool
}

// Plan computes the step-address for the instruction at instrAddr. thumb is
// the current instruction-set state, cpsr the saved condition flags, and
// regs the saved register-file snapshot (its PC field is overwritten
// internally with the architectural "current PC" value before being handed
// to a decoder; the caller's copy is untouched since RegisterFile is
// passed by value).
func Plan(instrAddr uint32, thumb bool, cpsr uint32, regs platform.RegisterFile, mem Memory) Result {
	regs[platform.CPSR] = cpsr

	if thumb {
		return planThumb(instrAddr, regs, mem)
	}
	return planARM(instrAddr, regs, mem)
}

func planARM(instrAddr uint32, regs platform.RegisterFile, mem Memory) Result {
	const linearSuccessor = 4

	opcode := mem.ReadWord(instrAddr)
	cond := uint8(opcode >> 28)

	if !condition.Evaluate(cond, regs[platform.CPSR]) {
		return Result{Next: instrAddr + linearSuccessor, NextThumb: regs.Thumb()}
	}

	current := regs.Clone()
	current[platform.PC] = instrAddr + 8

	r := armdecode.Decode(opcode, current, mem)
	if !r.Branches {
		return Result{Next: instrAddr + linearSuccessor, NextThumb: regs.Thumb()}
	}
	if !r.DestKnown {
		return Result{Next: instrAddr + linearSuccessor, NextThumb: regs.Thumb(), Uncertain: true}
	}

	return Result{Next: r.Dest, NextThumb: r.NewThumb}
}

func planThumb(instrAddr uint32, regs platform.RegisterFile, mem Memory) Result {
	const linearSuccessor = 2

	opcode := mem.ReadHalfword(instrAddr)

	current := regs.Clone()
	current[platform.PC] = instrAddr + 4

	r := thumbdecode.Decode(opcode, current, mem)
	if !r.Branches {
		return Result{Next: instrAddr + linearSuccessor, NextThumb: true}
	}

	// Every Thumb encoding thumbdecode reports as a branch has a fully
	// known destination; DestKnown is always true in that case.
	return Result{Next: r.Dest, NextThumb: r.NewThumb}
}
