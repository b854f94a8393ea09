package repositories

import (
	"eld-log-service/internal/domain"
	"encoding/json"
	"fmt"
)

type encodedLog struct {
	date string
	data []byte
}

// encodeLogs serializes each daily log once so every store keeps the same bytes.
func encodeLogs(logs []domain.DailyLog) ([]encodedLog, error) {
	out := make([]encodedLog, 0, len(logs))
	seen := make(map[string]struct{}, len(logs))
	for i, l := range logs {
		date := l.DateString()
		if _, ok := seen[date]; ok {
			return nil, fmt.Errorf("encode logs: duplicate log date %s at index %d", date, i)
		}
		seen[date] = struct{}{}

		b, err := json.Marshal(l)
		if err != nil {
			return nil, fmt.Errorf("encode logs: marshal log %s: %w", date, err)
		}
		out = append(out, encodedLog{date: date, data: b})
	}
	return out, nil
}
