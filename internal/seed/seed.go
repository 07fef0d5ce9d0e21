// Package seed generates the initial slot catalog and inserts it on first
// startup.  The timetable is fixed: booking operations never add or remove
// slots, they only change occupancy.
package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/oreshkin/slotbook/internal/model"
	"github.com/oreshkin/slotbook/internal/repository"
)

// window describes one block of the timetable: a set of dates on which a
// group takes appointments between start (inclusive) and end (exclusive),
// cut into 15-minute slots.
type window struct {
	dates []string
	group string
	start string // HH:MM
	end   string // HH:MM
}

const (
	groupOne = "Группа 1"
	groupTwo = "Группа 2"
)

// timetable is the source schedule for March 2026.
var timetable = []window{
	{dates: marchDates("03", "04", "10", "11"), group: groupOne, start: "10:00", end: "11:30"},
	{dates: marchDates("03", "04", "10", "11"), group: groupTwo, start: "11:00", end: "12:00"},
	{dates: marchDates("05", "12"), group: groupOne, start: "10:00", end: "11:00"},
	{dates: marchDates("05", "12"), group: groupTwo, start: "17:15", end: "18:15"},
	{dates: marchDates("06"), group: groupOne, start: "12:00", end: "13:00"},
	{dates: marchDates("16", "17"), group: groupOne, start: "10:00", end: "11:30"},
	{dates: marchDates("16", "17"), group: groupTwo, start: "17:00", end: "18:30"},
}

func marchDates(days ...string) []string {
	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, "2026-03-"+d)
	}
	return dates
}

// Catalog expands the timetable into individual slot rows.  Only the
// scheduling coordinates are filled in; occupancy starts empty.
func Catalog() []model.Slot {
	var slots []model.Slot
	for _, w := range timetable {
		startMin := minutes(w.start)
		endMin := minutes(w.end)
		for _, date := range w.dates {
			for m := startMin; m < endMin; m += 15 {
				slots = append(slots, model.Slot{
					Date:  date,
					Time:  fmt.Sprintf("%02d:%02d", m/60, m%60),
					Group: w.group,
				})
			}
		}
	}
	return slots
}

// minutes converts HH:MM to minutes since midnight.  The timetable is a
// compile-time constant, so a malformed entry is a programming error.
func minutes(hhmm string) int {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		panic(fmt.Sprintf("seed: bad time %q: %v", hhmm, err))
	}
	return h*60 + m
}

// Apply inserts the catalog when the slots table is empty.  Subsequent
// startups are no-ops, so re-deploying never disturbs existing bookings.
func Apply(ctx context.Context, slots *repository.SlotRepo) error {
	n, err := slots.Count(ctx)
	if err != nil {
		return fmt.Errorf("count slots: %w", err)
	}
	if n > 0 {
		return nil
	}
	catalog := Catalog()
	if err := slots.InsertBatch(ctx, catalog); err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}
	log.Printf("seed: inserted %d slots", len(catalog))
	return nil
}
