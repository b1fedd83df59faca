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

// Package test collects small helper functions used by the unit tests
// throughout this module. It deliberately avoids a third-party assertion
// library so it can be used from the stub's own packages without adding a
// test-only dependency to the module graph.
package test

import (
	"math"
	"testing"
)

// Equate fails the test if got and want are not equal.
func Equate(t *testing.T, got, want interface{}) bool {
	t.Helper()
	if got != want {
		t.Errorf("got %v (%T), wanted %v (%T)", got, got, want, want)
		return false
	}
	return true
}

// ExpectEquality fails the test if got and want are not equal.
func ExpectEquality(t *testing.T, got, want interface{}) bool {
	t.Helper()
	return Equate(t, got, want)
}

// ExpectInequality fails the test if got and want are equal.
func ExpectInequality(t *testing.T, got, want interface{}) bool {
	t.Helper()
	if got == want {
		t.Errorf("got %v (%T), wanted something other than %v", got, got, want)
		return false
	}
	return true
}

// ExpectApproximate fails the test if got and want differ by more than the
// supplied tolerance.
func ExpectApproximate(t *testing.T, got, want, tolerance float64) bool {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("got %f, wanted %f (+/- %f)", got, want, tolerance)
		return false
	}
	return true
}

// ExpectSuccess fails the test if v indicates failure. v may be a bool (must
// be true), an error (must be nil), or nil.
func ExpectSuccess(t *testing.T, v interface{}) bool {
	t.Helper()
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		if !v {
			t.Errorf("expected success")
			return false
		}
	case error:
		if v != nil {
			t.Errorf("expected success, got error: %v", v)
			return false
		}
	default:
		t.Errorf("unsupported type for ExpectSuccess: %T", v)
		return false
	}
	return true
}

// ExpectFailure fails the test if v indicates success. v may be a bool (must
// be false) or an error (must be non-nil).
func ExpectFailure(t *testing.T, v interface{}) bool {
	t.Helper()
	switch v := v.(type) {
	case bool:
		if v {
			t.Errorf("expected failure")
			return false
		}
	case error:
		if v == nil {
			t.Errorf("expected failure, got nil error")
			return false
		}
	default:
		t.Errorf("unsupported type for ExpectFailure: %T", v)
		return false
	}
	return true
}
