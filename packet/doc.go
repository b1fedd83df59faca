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

// Package packet implements the `$payload#cc` framing used by the remote
// textual debug protocol: checksum validation, `+`/`-` acknowledgement,
// the optional two-byte sequence-ID prefix, and the binary 0x7D-escape
// convention used by the X command's payload. It has no notion of what a
// payload means — that is package stub's job — only how to get one
// reliably across a byte-oriented transport.
package packet
