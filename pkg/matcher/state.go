package matcher

import (
	"fmt"
	"strings"

	"github.com/SpeedsterCollective/Tweeks/pkg/target"
)

// Per-target states. "wine" is the compat-layer state string used on the
// wire and in stored history.
const (
	StateNotRunning = "not-running"
	StateWindowOnly = "running-window-only"
	StateNative     = "native"
	StateWine       = "wine"
)

// StateSummary maps target name to its current state.
type StateSummary map[string]string

// Equal reports whether two summaries carry identical states.
func (s StateSummary) Equal(other StateSummary) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if other[k] != v {
			return false
		}
	}
	return true
}

// StateFor classifies one target. Native wins over Wine whenever at least
// one native match exists; window titles only matter when no process
// matched at all.
func StateFor(matches []ProcessMatch, windowTitles []string) string {
	if len(matches) == 0 {
		if len(windowTitles) > 0 {
			return StateWindowOnly
		}
		return StateNotRunning
	}
	for _, m := range matches {
		if !m.IsWine {
			return StateNative
		}
	}
	return StateWine
}

// Snapshot is one atomic read of the process table and window list, plus
// everything derived from it.
type Snapshot struct {
	Targets map[string][]ProcessMatch `json:"targets"`
	State   StateSummary              `json:"state"`
	Report  string                    `json:"report"`
}

// Snapshot performs a full scan: one pass over the process table, one window
// list, then per-target classification and the human-readable report.
func (m *Matcher) Snapshot() Snapshot {
	targets := m.Targets()
	titles := m.listTitles()
	matches := m.inspect(targets, titles)

	wins := make(map[string][]string, len(targets))
	state := make(StateSummary, len(targets))
	for _, t := range targets {
		wins[t.Name] = FilterWindows(t, titles, m.launcher)
		state[t.Name] = StateFor(matches[t.Name], wins[t.Name])
	}

	return Snapshot{
		Targets: matches,
		State:   state,
		Report:  formatReport(targets, matches, wins),
	}
}

func formatReport(targets []target.Target, matches map[string][]ProcessMatch, wins map[string][]string) string {
	var lines []string
	for _, t := range targets {
		procs := matches[t.Name]
		titles := wins[t.Name]
		if len(procs) == 0 && len(titles) == 0 {
			lines = append(lines, fmt.Sprintf("%s: not running", t.Name))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: RUNNING", t.Name))
		for _, pm := range procs {
			typ := "Native"
			if pm.IsWine {
				typ = "Wine"
			}
			verSuffix := ""
			if pm.Version != "" {
				verSuffix = " version=" + pm.Version
			}
			lines = append(lines, fmt.Sprintf(" - PID %d (%s) - name=%s cmdline=%s%s",
				pm.PID, typ, pm.Name, pm.Cmdline, verSuffix))
		}
		for _, title := range titles {
			lines = append(lines, " - Window: "+title)
		}
	}
	return strings.Join(lines, "\n")
}
