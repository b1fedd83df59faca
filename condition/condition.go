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

package condition

// CPSR flag bit positions. The N/Z/C/V flags occupy the top four bits of
// the word.
const (
	maskNegative = 0x80000000
	maskZero     = 0x40000000
	maskCarry    = 0x20000000
	maskOverflow = 0x10000000
)

// Flags is the decoded N/Z/C/V condition flags from a CPSR word.
type Flags struct {
	Negative bool
	Zero     bool
	Carry    bool
	Overflow bool
}

// DecodeFlags extracts the N/Z/C/V flags from a raw CPSR word.
func DecodeFlags(cpsr uint32) Flags {
	return Flags{
		Negative: cpsr&maskNegative == maskNegative,
		Zero:     cpsr&maskZero == maskZero,
		Carry:    cpsr&maskCarry == maskCarry,
		Overflow: cpsr&maskOverflow == maskOverflow,
	}
}

// Evaluate reports whether an instruction carrying the 4-bit condition code
// cond would execute given the supplied CPSR word. Codes 0xE (AL) and 0xF
// (the "extended"/always-execute encoding used by unconditional
// instructions like BLX1) both evaluate to true.
func Evaluate(cond uint8, cpsr uint32) bool {
	return EvaluateFlags(cond, DecodeFlags(cpsr))
}

// EvaluateFlags is Evaluate taking already-decoded flags, for callers that
// already have a Flags value to hand (the step planner, mainly).
func EvaluateFlags(cond uint8, f Flags) bool {
	switch cond & 0xf {
	case 0x0: // EQ: equal
		return f.Zero
	case 0x1: // NE: not equal
		return !f.Zero
	case 0x2: // CS/HS: carry set / unsigned higher or same
		return f.Carry
	case 0x3: // CC/LO: carry clear / unsigned lower
		return !f.Carry
	case 0x4: // MI: minus/negative
		return f.Negative
	case 0x5: // PL: plus/positive or zero
		return !f.Negative
	case 0x6: // VS: overflow
		return f.Overflow
	case 0x7: // VC: no overflow
		return !f.Overflow
	case 0x8: // HI: unsigned higher
		return f.Carry && !f.Zero
	case 0x9: // LS: unsigned lower or same
		return !f.Carry || f.Zero
	case 0xa: // GE: signed greater than or equal
		return f.Negative == f.Overflow
	case 0xb: // LT: signed less than
		return f.Negative != f.Overflow
	case 0xc: // GT: signed greater than
		return !f.Zero && f.Negative == f.Overflow
	case 0xd: // LE: signed less than or equal
		return f.Zero || f.Negative != f.Overflow
	case 0xe: // AL: always
		return true
	default: // 0xf: extended/always-execute encoding space
		return true
	}
}
