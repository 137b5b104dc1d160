package target

import "strings"

// Target is one application we watch for. Patterns are ordered: earlier
// entries are preferred client-executable names, later ones looser hints.
type Target struct {
	Name     string
	Patterns []string
}

// Defaults returns the built-in target definitions. Callers get a fresh
// slice each time so nothing downstream can mutate shared state.
func Defaults() []Target {
	return []Target{
		{
			Name: "Corporate Clash",
			Patterns: []string{
				"corporateclash.exe",
				"corporateclash_client",
				"corporate-clash-client",
			},
		},
		{
			Name: "Toontown Rewritten",
			Patterns: []string{
				"toontownrewritten.exe",
				"toontown rewritten.exe",
				"toontown.exe",
				"toontownrewritten",
				"toontown rewritten",
				"ttr",
				"ttr_client",
			},
		},
	}
}

// LauncherNames lists substrings identifying launcher/updater processes and
// windows. A process or window title containing any of these is never a
// client match, for any target.
func LauncherNames() []string {
	return []string{"launcher", "updater", "patcher", "install", "gamecenter"}
}

// WineNames lists the known Wine host process names.
func WineNames() []string {
	return []string{"wine", "wine64", "wine-preloader", "wineserver"}
}

// ContainsAny reports whether s contains any of the given substrings.
// Comparison is done on s as passed in; callers lowercase first.
func ContainsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the target list.
func Clone(targets []Target) []Target {
	out := make([]Target, len(targets))
	for i, t := range targets {
		out[i] = Target{Name: t.Name, Patterns: append([]string(nil), t.Patterns...)}
	}
	return out
}
