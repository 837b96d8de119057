package core

import "strings"

// personalKey is how the personal scope is stored in event descriptions and checked-off rows.
const personalKey = "None"

var reservedScopeNames = []string{"none", "personal"}

// Scope is either the personal scope of a student or a named class.
// The zero value is the personal scope.
type Scope struct {
	class string
}

func Personal() Scope { return Scope{} }

func Named(className string) Scope { return Scope{class: className} }

// ParseScope maps "", "none" and "personal" (any case) to Personal and anything else to Named.
func ParseScope(s string) Scope {
	s = strings.TrimSpace(s)
	if s == "" || IsReservedScopeName(s) {
		return Personal()
	}
	return Named(s)
}

// IsReservedScopeName reports whether name cannot be used as a class name.
func IsReservedScopeName(name string) bool {
	return ContainsFold(reservedScopeNames, strings.TrimSpace(name))
}

func (s Scope) IsPersonal() bool { return s.class == "" }

// ClassName is empty for the personal scope.
func (s Scope) ClassName() string { return s.class }

// Key is the stable storage representation of the scope.
func (s Scope) Key() string {
	if s.IsPersonal() {
		return personalKey
	}
	return s.class
}

// Label is the human readable name of the scope.
func (s Scope) Label() string {
	if s.IsPersonal() {
		return "Personal"
	}
	return s.class
}

func (s Scope) String() string { return s.Key() }
