package css

import (
	"slices"
	"strings"
)

// Unit is a size unit spelling. The empty Unit means the size is unitless.
type Unit string

// UnitNone marks a unitless size.
const UnitNone Unit = ""

// Unit spellings by category. vh/vw/vmin/vmax/rem are treated as absolute
// because they do not scale with the immediate parent, only with the
// viewport or the root element.
const (
	AbsoluteSizeUnits = "px/cm/mm/mozmm/in/pt/pc/vh/vw/vmin/vmax/rem"
	RelativeSizeUnits = "%/em/ex/ch/fr"
	NonSizeUnits      = "deg/grad/rad/s/ms/turns/Hz/kHz"
)

// unitBucket holds all unit spellings of the same length, keyed by their
// lowercase form.
type unitBucket struct {
	length int
	units  map[string]Unit
}

var (
	absoluteUnits = splitUnits(AbsoluteSizeUnits)
	relativeUnits = splitUnits(RelativeSizeUnits)
	nonSizeUnits  = splitUnits(NonSizeUnits)

	// unitTable is ordered from the longest spelling to the shortest so
	// that classification always prefers the longest match.
	unitTable = buildUnitTable(absoluteUnits, relativeUnits, nonSizeUnits)
)

func splitUnits(list string) []Unit {
	parts := strings.Split(list, "/")
	units := make([]Unit, 0, len(parts))
	for _, p := range parts {
		units = append(units, Unit(p))
	}
	return units
}

func buildUnitTable(lists ...[]Unit) []unitBucket {
	byLength := make(map[int]map[string]Unit)
	for _, list := range lists {
		for _, u := range list {
			l := len(u)
			if byLength[l] == nil {
				byLength[l] = make(map[string]Unit)
			}
			byLength[l][strings.ToLower(string(u))] = u
		}
	}

	table := make([]unitBucket, 0, len(byLength))
	for l, units := range byLength {
		table = append(table, unitBucket{length: l, units: units})
	}
	slices.SortFunc(table, func(a, b unitBucket) int {
		return b.length - a.length
	})
	return table
}

// Units returns all known unit spellings: absolute size units first, then
// relative size units, then non-size units.
func Units() []Unit {
	return slices.Concat(absoluteUnits, relativeUnits, nonSizeUnits)
}

// LookupUnit classifies spelling case-insensitively and returns its
// canonical form.
func LookupUnit(spelling string) (Unit, bool) {
	key := strings.ToLower(spelling)
	for _, b := range unitTable {
		if b.length != len(key) {
			continue
		}
		u, ok := b.units[key]
		return u, ok
	}
	return UnitNone, false
}

// IsAbsolute reports whether u is an absolute size unit.
func (u Unit) IsAbsolute() bool {
	return slices.Contains(absoluteUnits, u)
}

// IsRelative reports whether u is a relative size unit.
func (u Unit) IsRelative() bool {
	return slices.Contains(relativeUnits, u)
}

// IsNonSize reports whether u is an angle, duration or frequency unit.
func (u Unit) IsNonSize() bool {
	return slices.Contains(nonSizeUnits, u)
}
