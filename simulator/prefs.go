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
	"armdbgstub/prefs"
)

// Preferences is the simulator's disk-backed settings group: where the
// dashboard listens, which IRQ bits the pty transport claims while a
// session is live, and whether the session keeps a log.
type Preferences struct {
	dsk *prefs.Disk

	DashboardAddr prefs.String
	IRQMask       prefs.Int
	Logging       prefs.Bool
}

// NewPreferences returns a Preferences group backed by the file at path,
// with any values already present in the file loaded over the defaults.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	if err := p.dsk.Add("simulator.dashboard", &p.DashboardAddr); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("simulator.irqmask", &p.IRQMask); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("simulator.logging", &p.Logging); err != nil {
		return nil, err
	}

	_ = p.DashboardAddr.Set("localhost:18081")
	_ = p.IRQMask.Set(0)
	_ = p.Logging.Set(true)

	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// Save writes the current values back to the preferences file.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// NewSessionFromPreferences is NewSession with its arguments taken from a
// Preferences group.
func NewSessionFromPreferences(p *Preferences) (*Session, error) {
	return NewSession(uint32(p.IRQMask.Get().(int)), p.DashboardAddr.Get().(string))
}
