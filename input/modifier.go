package input

import "strings"

// Modifiers is the set of modifier keys held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// Has reports whether every modifier in m is set.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// String renders the set as colon-separated names in shift, alt, ctrl
// order. The empty set renders as "".
func (mods Modifiers) String() string {
	var parts []string
	if mods.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if mods.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if mods.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	return strings.Join(parts, ":")
}
