package css

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnitTable_LongestFirst(t *testing.T) {
	if len(unitTable) == 0 {
		t.Fatal("unit table is empty")
	}
	for i := 1; i < len(unitTable); i++ {
		if unitTable[i-1].length <= unitTable[i].length {
			t.Errorf("bucket %d (len %d) is not longer than bucket %d (len %d)",
				i-1, unitTable[i-1].length, i, unitTable[i].length)
		}
	}

	var lengths []int
	for _, b := range unitTable {
		lengths = append(lengths, b.length)
		for key, u := range b.units {
			if len(key) != b.length || len(u) != b.length {
				t.Errorf("unit %q (key %q) is in bucket of length %d", u, key, b.length)
			}
		}
	}
	if diff := cmp.Diff([]int{5, 4, 3, 2, 1}, lengths); diff != "" {
		t.Errorf("bucket lengths mismatch (-want +got):\n%s", diff)
	}
}

func TestUnitTable_Complete(t *testing.T) {
	all := Units()
	if len(all) != 25 {
		t.Fatalf("Units() returned %d units, want 25", len(all))
	}
	for _, u := range all {
		got, ok := LookupUnit(string(u))
		if !ok || got != u {
			t.Errorf("LookupUnit(%q) = %q, %v", u, got, ok)
		}
	}
}

func TestLookupUnit(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
		ok   bool
	}{
		{"PX", "px", true},
		{"hz", "Hz", true},
		{"KHz", "kHz", true},
		{"VMin", "vmin", true},
		{"%", "%", true},
		{"dppx", UnitNone, false},
		{"", UnitNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := LookupUnit(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("LookupUnit(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestUnit_Categories(t *testing.T) {
	tests := []struct {
		unit                        Unit
		absolute, relative, nonSize bool
	}{
		{"px", true, false, false},
		{"rem", true, false, false},
		{"vmax", true, false, false},
		{"%", false, true, false},
		{"fr", false, true, false},
		{"deg", false, false, true},
		{"kHz", false, false, true},
		{"khz", false, false, false},
		{UnitNone, false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			if got := tt.unit.IsAbsolute(); got != tt.absolute {
				t.Errorf("IsAbsolute() = %v, want %v", got, tt.absolute)
			}
			if got := tt.unit.IsRelative(); got != tt.relative {
				t.Errorf("IsRelative() = %v, want %v", got, tt.relative)
			}
			if got := tt.unit.IsNonSize(); got != tt.nonSize {
				t.Errorf("IsNonSize() = %v, want %v", got, tt.nonSize)
			}
		})
	}
}
