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

// Package stepplan computes, for the instruction the target is about to
// execute, the single address that must be trapped for one logical source
// line to retire control back to the debug stub. It composes package
// condition (to skip a not-taken ARM conditional instruction), package
// armdecode and package thumbdecode (to follow a taken branch to its
// destination), and falls back to the linear successor address for any
// instruction that does not redirect the program counter.
package stepplan
