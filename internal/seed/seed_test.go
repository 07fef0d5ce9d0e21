package seed

import (
	"fmt"
	"testing"
)

// The timetable expands to a fixed number of 15-minute slots:
//
//	4 dates × 6 (Группа 1, 10:00–11:30)  = 24
//	4 dates × 4 (Группа 2, 11:00–12:00)  = 16
//	2 dates × 4 (Группа 1, 10:00–11:00)  =  8
//	2 dates × 4 (Группа 2, 17:15–18:15)  =  8
//	1 date  × 4 (Группа 1, 12:00–13:00)  =  4
//	2 dates × 6 (Группа 1, 10:00–11:30)  = 12
//	2 dates × 6 (Группа 2, 17:00–18:30)  = 12
const wantCatalogSize = 84

func TestCatalogSize(t *testing.T) {
	if got := len(Catalog()); got != wantCatalogSize {
		t.Fatalf("catalog size = %d, want %d", got, wantCatalogSize)
	}
}

func TestCatalogUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Catalog() {
		key := fmt.Sprintf("%s|%s|%s", s.Date, s.Time, s.Group)
		if seen[key] {
			t.Fatalf("duplicate slot in catalog: %s", key)
		}
		seen[key] = true
	}
}

func TestCatalogSlotShape(t *testing.T) {
	for _, s := range Catalog() {
		if s.UserName != nil || s.SecretCode != nil {
			t.Fatalf("seed slot %s %s must start free", s.Date, s.Time)
		}
		if m := minutes(s.Time); m%15 != 0 {
			t.Fatalf("slot time %q not aligned to 15 minutes", s.Time)
		}
		if len(s.Date) != 10 || len(s.Time) != 5 {
			t.Fatalf("malformed coordinates: date=%q time=%q", s.Date, s.Time)
		}
	}
}

func TestCatalogWindowBoundaries(t *testing.T) {
	has := func(date, tm, group string) bool {
		for _, s := range Catalog() {
			if s.Date == date && s.Time == tm && s.Group == group {
				return true
			}
		}
		return false
	}

	// Window starts are inclusive.
	if !has("2026-03-03", "10:00", groupOne) {
		t.Errorf("missing first slot of Группа 1 window on 2026-03-03")
	}
	if !has("2026-03-05", "17:15", groupTwo) {
		t.Errorf("missing first slot of Группа 2 window on 2026-03-05")
	}
	if !has("2026-03-06", "12:45", groupOne) {
		t.Errorf("missing last slot of the single-date window on 2026-03-06")
	}
	// Window ends are exclusive.
	if has("2026-03-03", "11:30", groupOne) {
		t.Errorf("window end 11:30 must not produce a slot")
	}
	if has("2026-03-06", "13:00", groupOne) {
		t.Errorf("window end 13:00 must not produce a slot")
	}
}

func TestMinutes(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"10:00": 600,
		"17:15": 1035,
		"18:30": 1110,
	}
	for in, want := range cases {
		if got := minutes(in); got != want {
			t.Errorf("minutes(%q) = %d, want %d", in, got, want)
		}
	}
}
