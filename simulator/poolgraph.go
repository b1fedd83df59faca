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

package simulator

import (
	"io"

	"github.com/bradleyjkemp/memviz"

	"armdbgstub/bppool"
)

// DumpPoolGraph renders pool as a graphviz dot graph to w: the four list
// heads and the record array let a developer see at a glance whether
// Free/Active/Stepping/Disabled still partition the arena correctly after
// a sequence of operations.
func DumpPoolGraph(w io.Writer, pool *bppool.Pool) {
	memviz.Map(w, pool)
}
