package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// SlotsPerDay is the number of quarter-hour slots on a log sheet.
	SlotsPerDay  = 96
	SlotDuration = 15 * time.Minute
)

// Grid holds one duty status per quarter hour of a calendar day.
type Grid [SlotsPerDay]DutyStatus

// Paint sets slots [from, to) to status. Indices are clipped to the day;
// nothing ever wraps into the following day.
func (g *Grid) Paint(from, to int, status DutyStatus) {
	if from < 0 {
		from = 0
	}
	if to > SlotsPerDay {
		to = SlotsPerDay
	}
	for i := from; i < to; i++ {
		g[i] = status
	}
}

// Count returns the number of slots carrying status.
func (g *Grid) Count(status DutyStatus) int {
	n := 0
	for _, s := range g {
		if s == status {
			n++
		}
	}
	return n
}

// Codes returns the grid as its short codes ("OFF", "D", "ON", "SB").
func (g *Grid) Codes() []string {
	out := make([]string, SlotsPerDay)
	for i, s := range g {
		out[i] = s.GridCode()
	}
	return out
}

func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Codes())
}

func (g *Grid) UnmarshalJSON(b []byte) error {
	var codes []string
	if err := json.Unmarshal(b, &codes); err != nil {
		return fmt.Errorf("unmarshal grid: %w", err)
	}
	if len(codes) != SlotsPerDay {
		return fmt.Errorf("unmarshal grid: expected %d slots, got %d", SlotsPerDay, len(codes))
	}

	byCode := make(map[string]DutyStatus, numDutyStatuses)
	for _, s := range DutyStatuses() {
		byCode[s.GridCode()] = s
	}
	for i, c := range codes {
		s, ok := byCode[c]
		if !ok {
			return fmt.Errorf("unmarshal grid: unknown code %q at slot %d", c, i)
		}
		g[i] = s
	}
	return nil
}

// SlotIndex returns the quarter-hour slot containing t, measured from dayStart.
// Times on a later day yield indices past SlotsPerDay.
func SlotIndex(dayStart, t time.Time) int {
	return int(t.Sub(dayStart) / SlotDuration)
}
