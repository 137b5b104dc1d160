// Package matcher classifies running processes and window titles against a
// set of game-client targets. It distinguishes real clients from their
// launchers/updaters and native clients from Wine-hosted ones.
//
// Matching runs in a fixed priority order: launcher exclusion first, then an
// exact or suffix comparison on an executable argument pulled out of the
// command line, then a loose substring search over everything we know about
// the process. Downstream state classification depends on that order.
package matcher

import (
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/SpeedsterCollective/Tweeks/pkg/target"
	"github.com/SpeedsterCollective/Tweeks/pkg/windows"
)

// ProcessMatch describes one matched process. Built fresh on every scan,
// never persisted.
type ProcessMatch struct {
	PID         int32  `json:"pid"`
	Name        string `json:"name"`
	Cmdline     string `json:"cmdline"`
	Exe         string `json:"exe"`
	IsWine      bool   `json:"is_wine"`
	MatchReason string `json:"match_reason"`
	Version     string `json:"version,omitempty"`
}

// Matcher holds the immutable matching rules plus the process and window
// providers. Safe for concurrent use; every scan produces a fresh snapshot.
type Matcher struct {
	mu       sync.RWMutex
	targets  []target.Target
	source   Source
	windows  windows.Lister
	launcher []string
	wine     []string
}

// New builds a matcher over the given targets. A nil lister disables the
// window-title fallback.
func New(targets []target.Target, source Source, lister windows.Lister) *Matcher {
	return &Matcher{
		targets:  target.Clone(targets),
		source:   source,
		windows:  lister,
		launcher: target.LauncherNames(),
		wine:     target.WineNames(),
	}
}

// Targets returns a copy of the current target definitions.
func (m *Matcher) Targets() []target.Target {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return target.Clone(m.targets)
}

// SetTargets swaps the target definitions, e.g. after a rules-file reload.
func (m *Matcher) SetTargets(targets []target.Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets = target.Clone(targets)
}

// Match tests one process against one target and returns the match with its
// reason. Launcher processes never match, for any target.
func (m *Matcher) Match(info ProcessInfo, tgt target.Target) (ProcessMatch, bool) {
	lname := strings.ToLower(info.Name)
	lcmd := strings.ToLower(info.Cmdline)
	lexe := strings.ToLower(info.Exe)

	// Launcher exclusion takes precedence over everything else.
	if target.ContainsAny(lname, m.launcher) || target.ContainsAny(lcmd, m.launcher) {
		return ProcessMatch{}, false
	}

	isWineProc := containsExact(m.wine, lname) || target.ContainsAny(lcmd, m.wine)
	exeArg := ExtractExeArg(lcmd)

	var matched bool
	var reason string

	// Exact or suffix match on the .exe argument is the strongest signal,
	// common for Wine command lines.
	if exeArg != "" {
		for _, p := range tgt.Patterns {
			lp := strings.ToLower(p)
			if exeArg == lp || strings.HasSuffix(exeArg, lp) {
				matched = true
				reason = "exe_arg=" + exeArg
				break
			}
		}
	}

	if !matched {
		hay := lname + " " + lcmd + " " + lexe + " " + exeArg
		for _, p := range tgt.Patterns {
			lp := strings.ToLower(p)
			if strings.Contains(hay, lp) {
				matched = true
				reason = "pattern=" + lp
				break
			}
		}
	}

	if !matched {
		return ProcessMatch{}, false
	}

	// A Windows-style executable argument on a non-Windows host is taken as
	// evidence of a compatibility layer even when the Wine host process
	// itself was not visible.
	isWine := isWineProc
	if !isWine && exeArg != "" && strings.HasSuffix(exeArg, ".exe") && runtime.GOOS != "windows" {
		isWine = true
	}

	return ProcessMatch{
		PID:         info.PID,
		Name:        info.Name,
		Cmdline:     info.Cmdline,
		Exe:         info.Exe,
		IsWine:      isWine,
		MatchReason: reason,
	}, true
}

// ExtractExeArg pulls the base filename of the first command-line token
// containing ".exe", stripping quotes and normalizing Windows path
// separators. Returns "" when the command line carries no such token.
// Input is expected to be lowercased already.
func ExtractExeArg(lcmd string) string {
	if !strings.Contains(lcmd, ".exe") {
		return ""
	}
	for _, part := range strings.Fields(lcmd) {
		if !strings.Contains(part, ".exe") {
			continue
		}
		raw := strings.Trim(part, `"`)
		raw = strings.ReplaceAll(raw, `\`, "/")
		return strings.ToLower(path.Base(raw))
	}
	return ""
}

// Inspect scans the process table once and returns the matches per target.
// Window titles are listed once per scan and reused for version extraction.
func (m *Matcher) Inspect() map[string][]ProcessMatch {
	targets := m.Targets()
	titles := m.listTitles()
	return m.inspect(targets, titles)
}

func (m *Matcher) inspect(targets []target.Target, titles []string) map[string][]ProcessMatch {
	results := make(map[string][]ProcessMatch, len(targets))
	for _, t := range targets {
		results[t.Name] = []ProcessMatch{}
	}

	var procs []ProcessInfo
	if m.source != nil {
		procs = m.source.Processes()
	}

	for _, info := range procs {
		for _, t := range targets {
			pm, ok := m.Match(info, t)
			if !ok {
				continue
			}
			pm.Version = m.versionFor(t, info, titles)
			results[t.Name] = append(results[t.Name], pm)
		}
	}

	return results
}

// versionFor resolves a best-effort version string: command-line flag first,
// then a window title for the same target, then the executable tail scan.
func (m *Matcher) versionFor(tgt target.Target, info ProcessInfo, titles []string) string {
	if v := VersionFromCmdline(info.Cmdline); v != "" {
		return v
	}
	for _, title := range FilterWindows(tgt, titles, m.launcher) {
		if v := VersionFromTitle(title); v != "" {
			return v
		}
	}
	return VersionFromExe(info.Exe)
}

// FindWindowsForTarget returns window titles containing the target's display
// name, excluding launcher windows.
func (m *Matcher) FindWindowsForTarget(tgt target.Target) []string {
	return FilterWindows(tgt, m.listTitles(), m.launcher)
}

// FilterWindows applies launcher exclusion and the case-insensitive target
// name test to a raw title list.
func FilterWindows(tgt target.Target, titles []string, launcher []string) []string {
	name := strings.ToLower(tgt.Name)
	var out []string
	for _, title := range titles {
		low := strings.ToLower(title)
		if target.ContainsAny(low, launcher) {
			continue
		}
		if strings.Contains(low, name) {
			out = append(out, title)
		}
	}
	return out
}

func (m *Matcher) listTitles() []string {
	if m.windows == nil {
		return nil
	}
	return m.windows.ListTitles()
}

func containsExact(set []string, s string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
