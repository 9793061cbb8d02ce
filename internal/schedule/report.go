package schedule

import "time"

// Record is the serializable view of an Entry
type Record struct {
	Name            string    `json:"name"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes float64   `json:"duration_minutes"`
	ExtraMinutes    float64   `json:"extra_minutes"`
	Fixed           bool      `json:"fixed"`
	Unresolved      bool      `json:"unresolved,omitempty"`
}

// Report is the serializable view of a Schedule handed to renderers and exporters
type Report struct {
	Entries              []Record  `json:"entries"`
	TotalDurationMinutes float64   `json:"total_duration_minutes"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
}

// NewRecord converts an entry into its serializable view
func NewRecord(e Entry) Record {
	return Record{
		Name:            e.name,
		StartTime:       e.start,
		EndTime:         e.end,
		DurationMinutes: e.duration.Minutes(),
		ExtraMinutes:    e.extra.Minutes(),
		Fixed:           e.fixed,
		Unresolved:      e.unresolved,
	}
}

// Report returns the serializable view of the schedule
func (s *Schedule) Report() (Report, error) {
	start, err := s.Start()
	if err != nil {
		return Report{}, err
	}
	end, err := s.End()
	if err != nil {
		return Report{}, err
	}

	records := make([]Record, 0, len(s.entries))
	for _, e := range s.entries {
		records = append(records, NewRecord(e))
	}

	return Report{
		Entries:              records,
		TotalDurationMinutes: s.Total().Minutes(),
		StartTime:            start,
		EndTime:              end,
	}, nil
}
