package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Event is one contiguous block of a single duty status within a day.
// Activity is only set for on-duty stops such as loading or fueling.
type Event struct {
	Status   DutyStatus
	Start    time.Time
	End      time.Time
	Duration float64
	Activity string
}

type eventJSON struct {
	Status   DutyStatus `json:"status"`
	Start    string     `json:"start"`
	End      string     `json:"end"`
	Duration float64    `json:"duration"`
	Activity string     `json:"activity,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		Status:   e.Status,
		Start:    e.Start.Format(timeLayout),
		End:      e.End.Format(timeLayout),
		Duration: e.Duration,
		Activity: e.Activity,
	})
}

// DailyLog is one calendar day of the driver's record of duty status.
type DailyLog struct {
	Date   time.Time
	Grid   Grid
	Events []Event
	Totals Totals
}

// NewDailyLog returns an empty, fully off-duty log for the day containing date.
func NewDailyLog(date time.Time) DailyLog {
	return DailyLog{
		Date:   StartOfDay(date),
		Events: []Event{},
	}
}

// DateString formats the log date as an ISO calendar date.
func (l DailyLog) DateString() string {
	return l.Date.Format(dateLayout)
}

// Record appends an event, paints its slots and adds its duration to the totals.
// The event must start on the log's date; slots past midnight are not painted.
func (l *DailyLog) Record(e Event) {
	l.Grid.Paint(SlotIndex(l.Date, e.Start), SlotIndex(l.Date, e.End), e.Status)
	l.Events = append(l.Events, e)
	l.Totals.Add(e.Status, e.Duration)
}

type dailyLogJSON struct {
	Date   string  `json:"date"`
	Grid   Grid    `json:"grid"`
	Events []Event `json:"events"`
	Totals Totals  `json:"totals"`
}

func (l DailyLog) MarshalJSON() ([]byte, error) {
	events := l.Events
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(dailyLogJSON{
		Date:   l.DateString(),
		Grid:   l.Grid,
		Events: events,
		Totals: l.Totals,
	})
}

// StartOfDay truncates t to midnight of its calendar day, keeping its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseLogDate parses an ISO calendar date as stored on a log sheet.
func ParseLogDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse log date %q: %w", s, err)
	}
	return t, nil
}
