package domain

import "time"

// SampleTimeLayout formats sample labels as minutes:seconds.
const SampleTimeLayout = "04:05"

// ChartTimeLayout is the label layout used once the hour is prepended for charts.
const ChartTimeLayout = "15:04:05"

// Sample is one point of the fleet status time series.
type Sample struct {
	Time       string    `json:"time"`
	Timestamp  time.Time `json:"timestamp"`
	Online     int       `json:"online"`
	Offline    int       `json:"offline"`
	LowBattery int       `json:"lowBattery"`
}

// NewSample counts robot statuses at the given instant.
func NewSample(robots []Robot, at time.Time) Sample {
	s := Sample{
		Time:      at.Format(SampleTimeLayout),
		Timestamp: at,
	}
	for _, r := range robots {
		switch r.Status {
		case StatusOnline:
			s.Online++
		case StatusOffline:
			s.Offline++
		case StatusLowBattery:
			s.LowBattery++
		}
	}
	return s
}

// Total is the fleet size at sampling time.
func (s Sample) Total() int {
	return s.Online + s.Offline + s.LowBattery
}

// ChartLabel returns the label with the hour of the sample prepended (HH:mm:ss).
func (s Sample) ChartLabel() string {
	return s.Timestamp.Format(ChartTimeLayout)
}
