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

// Package stub is the debug stub itself: the protocol dispatcher that
// drives packet, bppool, and stepplan from inside the exception handler,
// and the descriptor/lifecycle that ties them to a platform.Capabilities
// and platform.Transport pair. Init installs the exception handler and
// prepares the breakpoint pool; Halt lets the target proactively enter
// the debugger without waiting for a fault.
package stub
