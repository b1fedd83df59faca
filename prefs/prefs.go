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

// Package prefs is a small typed-preferences facility: a handful of value
// types that can parse themselves from a string representation, and a Disk
// type that binds them to keys in a plain text file. It is used by the
// host-side simulator for its local settings; the on-target stub itself
// takes no configuration.
package prefs

import (
	"fmt"
	"strconv"
	"sync"

	"armdbgstub/curated"
)

// Value represents the actual Go preference value.
type Value interface{}

// pref is the interface every preference type satisfies.
type pref interface {
	fmt.Stringer

	// Set the preference value. The concrete type decides which Value
	// types it accepts.
	Set(value Value) error

	// Get returns the current value.
	Get() Value
}

// Bool is a boolean preference. The zero value is ready to use.
type Bool struct {
	crit  sync.Mutex
	value bool
}

func (p *Bool) String() string {
	return fmt.Sprintf("%v", p.Get())
}

// Set translates value to a bool as best it can: native bools are taken
// as they are and anything else goes through its string representation,
// with an unparseable string meaning false. Set never fails for the Bool
// type.
func (p *Bool) Set(value Value) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	switch v := value.(type) {
	case bool:
		p.value = v
	default:
		b, err := strconv.ParseBool(fmt.Sprintf("%v", v))
		if err != nil {
			b = false
		}
		p.value = b
	}

	return nil
}

// Get returns the raw preference value.
func (p *Bool) Get() Value {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.value
}

// String is a string preference. The zero value is ready to use.
type String struct {
	crit  sync.Mutex
	value string
}

func (p *String) String() string {
	return p.Get().(string)
}

// Set stores the string representation of value. Set never fails for the
// String type.
func (p *String) Set(value Value) error {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.value = fmt.Sprintf("%v", value)
	return nil
}

// Get returns the raw preference value.
func (p *String) Get() Value {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.value
}

// Int is an integer preference. The zero value is ready to use.
type Int struct {
	crit  sync.Mutex
	value int
}

func (p *Int) String() string {
	return fmt.Sprintf("%d", p.Get())
}

// Set accepts a native int or a string that parses as one; anything else
// is an error.
func (p *Int) Set(value Value) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	switch v := value.(type) {
	case int:
		p.value = v
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return curated.Errorf("prefs: cannot set int to %s", v)
		}
		p.value = i
	default:
		return curated.Errorf("prefs: cannot set int to type %T", v)
	}

	return nil
}

// Get returns the raw preference value.
func (p *Int) Get() Value {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.value
}
