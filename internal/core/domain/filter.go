package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrUnknownFilter = errors.New("unknown robot filter")
	ErrRobotNotFound = errors.New("robot not found")
	ErrInvalidID     = errors.New("invalid robot id")
)

// Filter selects robots by status.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterOnline     Filter = Filter(StatusOnline)
	FilterOffline    Filter = Filter(StatusOffline)
	FilterLowBattery Filter = Filter(StatusLowBattery)
)

// Filters lists every accepted filter.
var Filters = []Filter{FilterAll, FilterOnline, FilterOffline, FilterLowBattery}

// ParseFilter validates a user supplied filter. An empty string means all.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// Matches reports whether r passes the filter.
func (f Filter) Matches(r Robot) bool {
	switch f {
	case FilterOnline, FilterOffline, FilterLowBattery:
		return r.Status == Status(f)
	default:
		return true
	}
}
