package types

import (
	"fmt"
	"slices"
	"strings"
)

// LaunchState represents the launch lifecycle stage of one application
type LaunchState int

const (
	LaunchWaiting LaunchState = iota
	LaunchLaunched
	LaunchLaunchedAndMoved
	LaunchFailed
)

// LaunchStates lists every state in lifecycle order
var LaunchStates = []LaunchState{LaunchWaiting, LaunchLaunched, LaunchLaunchedAndMoved, LaunchFailed}

// String returns the string representation of the state
func (s LaunchState) String() string {
	switch s {
	case LaunchWaiting:
		return "waiting"
	case LaunchLaunched:
		return "launched"
	case LaunchLaunchedAndMoved:
		return "launched_and_moved"
	case LaunchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition is expected
func (s LaunchState) IsTerminal() bool {
	return s == LaunchFailed || s == LaunchLaunchedAndMoved
}

// MarshalText encodes the state by name
func (s LaunchState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name
func (s *LaunchState) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for _, st := range LaunchStates {
		if st.String() == name {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown launch state %q", name)
}

// Handle is an opaque reference to a launched process and its window.
// The zero value means no handle is available yet.
type Handle struct {
	PID    int    `json:"pid,omitempty"`
	Window uint64 `json:"window,omitempty"`
}

// IsZero reports whether the handle is absent
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// AppLaunchData is the launch record of one tracked application
type AppLaunchData struct {
	App    Application `json:"app"`
	Handle Handle      `json:"handle"`
	State  LaunchState `json:"state"`
}

// LaunchStatusMap maps every tracked application to its launch record
type LaunchStatusMap map[AppKey]AppLaunchData

// Clone returns an independent copy of the map
func (m LaunchStatusMap) Clone() LaunchStatusMap {
	out := make(LaunchStatusMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Count returns the number of entries in the given state
func (m LaunchStatusMap) Count(state LaunchState) int {
	n := 0
	for _, v := range m {
		if v.State == state {
			n++
		}
	}
	return n
}

// Entries returns the records sorted by name, path, args and id
func (m LaunchStatusMap) Entries() []AppLaunchData {
	entries := make([]AppLaunchData, 0, len(m))
	for _, v := range m {
		entries = append(entries, v)
	}
	slices.SortFunc(entries, func(a, b AppLaunchData) int {
		if c := strings.Compare(a.App.DisplayName(), b.App.DisplayName()); c != 0 {
			return c
		}
		if c := strings.Compare(a.App.Path, b.App.Path); c != 0 {
			return c
		}
		if c := strings.Compare(a.App.Args, b.App.Args); c != 0 {
			return c
		}
		return strings.Compare(a.App.ID, b.App.ID)
	})
	return entries
}
