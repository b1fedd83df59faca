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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"armdbgstub/curated"
)

// WarningBoilerPlate is the first line of every file written by Save.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// keySep separates the key from the value on each line of the file.
const keySep = " :: "

// Disk binds preference values to keys in a plain text file. Keys are
// sorted on save so the file diffs cleanly.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk prepares a Disk for the preferences file at path. The file is
// not touched until Load or Save.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, curated.Errorf("prefs: no path specified")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add registers p under key. A key can be registered only once.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.Contains(key, keySep) {
		return curated.Errorf("prefs: invalid key: %s", key)
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf("prefs: duplicate key: %s", key)
	}
	dsk.entries[key] = p
	return nil
}

// Load reads the file and sets every registered preference whose key
// appears in it. Keys in the file that nothing has registered are left
// alone, as are registered preferences the file doesn't mention. A file
// that doesn't exist yet is not an error; the registered values simply
// keep their current state.
func (dsk *Disk) Load() error {
	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return curated.Errorf("prefs: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, keySep)
		if !ok {
			continue
		}
		if p, ok := dsk.entries[key]; ok {
			if err := p.Set(value); err != nil {
				return curated.Errorf("prefs: %v", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}

// Save writes every registered preference to the file, replacing its
// previous contents.
func (dsk *Disk) Save() error {
	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	defer f.Close()

	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(f, WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(f, "%s%s%s\n", k, keySep, dsk.entries[k].String())
	}

	return nil
}
