package domain

import (
	"encoding/json"
	"fmt"
)

// DutyStatus is one of the four lines of a driver's daily log.
// The zero value is OffDuty, so a zero Grid reads as a fully off-duty day.
type DutyStatus uint8

const (
	OffDuty DutyStatus = iota
	SleeperBerth
	Driving
	OnDuty

	numDutyStatuses = iota
)

type statusInfo struct {
	label     string
	code      string
	totalsKey string
}

// statusTable is the single source for status labels, grid codes and totals keys.
var statusTable = [numDutyStatuses]statusInfo{
	OffDuty:      {label: "Off duty", code: "OFF", totalsKey: "off_duty"},
	SleeperBerth: {label: "Sleeper berth", code: "SB", totalsKey: "sleeper"},
	Driving:      {label: "Driving", code: "D", totalsKey: "driving"},
	OnDuty:       {label: "On duty", code: "ON", totalsKey: "on_duty"},
}

// DutyStatuses lists every status in log-sheet line order.
func DutyStatuses() []DutyStatus {
	return []DutyStatus{OffDuty, SleeperBerth, Driving, OnDuty}
}

func (s DutyStatus) Valid() bool { return s < numDutyStatuses }

// String returns the human label used in event records ("On duty", "Sleeper berth", ...).
func (s DutyStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("DutyStatus(%d)", uint8(s))
	}
	return statusTable[s].label
}

// GridCode returns the short code painted into the quarter-hour grid.
func (s DutyStatus) GridCode() string {
	if !s.Valid() {
		return ""
	}
	return statusTable[s].code
}

// TotalsKey returns the key under which the status is summed in a day's totals.
func (s DutyStatus) TotalsKey() string {
	if !s.Valid() {
		return ""
	}
	return statusTable[s].totalsKey
}

func (s DutyStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal duty status: invalid value %d", uint8(s))
	}
	return json.Marshal(statusTable[s].label)
}

func (s *DutyStatus) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return fmt.Errorf("unmarshal duty status: %w", err)
	}
	for i, info := range statusTable {
		if info.label == label {
			*s = DutyStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unmarshal duty status: unknown label %q", label)
}
