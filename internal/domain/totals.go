package domain

import (
	"encoding/json"
	"fmt"
)

// Totals accumulates hours per duty status for one day.
type Totals [numDutyStatuses]float64

func (t *Totals) Add(status DutyStatus, hours float64) {
	t[status] += hours
}

func (t Totals) Get(status DutyStatus) float64 {
	return t[status]
}

// Sum returns the hours recorded across all statuses.
func (t Totals) Sum() float64 {
	var sum float64
	for _, h := range t {
		sum += h
	}
	return sum
}

func (t Totals) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, numDutyStatuses)
	for _, s := range DutyStatuses() {
		m[s.TotalsKey()] = t[s]
	}
	return json.Marshal(m)
}

func (t *Totals) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("unmarshal totals: %w", err)
	}
	for _, s := range DutyStatuses() {
		t[s] = m[s.TotalsKey()]
	}
	return nil
}
