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

// Package platform describes the boundary between the debug stub core and
// the hardware/runtime it is linked into: the saved register file it is
// handed on every trap, and the small opaque capability sets (cache
// maintenance, interrupt control, banked-register writes, exception-handler
// installation) the stub invokes but never implements itself.
package platform
