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

// Package simulator is the host-side harness used to drive the debug stub
// during development and integration testing: a pty-backed transport
// standing in for the real serial/SPI link, a handful of counters describing
// a running session, a live stats dashboard, and a breakpoint-pool graph
// dump. Nothing here is imported by package stub; the stub's own dependency
// graph stays exactly the small capability-set interfaces of package
// platform.
package simulator
