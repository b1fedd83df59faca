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

// Package thumbdecode decodes a single 16-bit Thumb instruction halfword far
// enough to answer the same question package armdecode answers for ARM
// words: does it write the program counter, and if so, to what address and
// in what instruction state? Unlike ARM, only one Thumb encoding (the
// conditional branch) is conditional; every other encoding here is
// unconditionally either a branch or not. Only the conditional-branch case
// consults package condition, testing the CPSR held in the register file
// and reporting a branch only when the condition is satisfied.
package thumbdecode
