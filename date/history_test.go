package date

import (
	"slices"
	"testing"
)

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Append two values in reverse order and check that the history stays sorted.
	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}
	if h.days[0] != d2 || h.days[1] != d1 {
		t.Errorf("history days = %v want [%v %v]", h.days, d2, d1)
	}
	if h.values[0] != v2 || h.values[1] != v1 {
		t.Errorf("history values = %v want [%v %v]", h.values, v2, v1)
	}

	h.Append(d1, "overwritten")
	if v, _ := h.Get(d1); v != "overwritten" || h.Len() != 2 {
		t.Errorf("Append(d1) twice: Get(d1) = %q, Len() = %d", v, h.Len())
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(MustParse("2025-01-02"), 1.5).Append(MustParse("2025-01-05"), 2.5)

	testCases := []struct {
		on     string
		want   float64
		wantOK bool
	}{
		{"2025-01-01", 0, false},
		{"2025-01-02", 1.5, true},
		{"2025-01-04", 1.5, true},
		{"2025-01-09", 2.5, true},
	}
	for _, tc := range testCases {
		got, ok := h.ValueAsOf(MustParse(tc.on))
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ValueAsOf(%s) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestIterate(t *testing.T) {
	nav := new(History[float64])
	cum := new(History[float64])
	nav.Append(MustParse("2025-01-02"), 1).Append(MustParse("2025-01-03"), 1)
	cum.Append(MustParse("2025-01-03"), 1).Append(MustParse("2025-01-06"), 1)

	got := slices.Collect(Iterate(nav, cum))
	want := []Date{MustParse("2025-01-02"), MustParse("2025-01-03"), MustParse("2025-01-06")}
	if !slices.Equal(got, want) {
		t.Errorf("Iterate() = %v, want %v", got, want)
	}
}
