package matcher

import (
	"strings"
	"testing"
)

func TestStateFor(t *testing.T) {
	tests := []struct {
		name    string
		matches []ProcessMatch
		titles  []string
		want    string
	}{
		{
			name: "nothing observed",
			want: StateNotRunning,
		},
		{
			name:   "window only",
			titles: []string{"Toontown Rewritten - Playground"},
			want:   StateWindowOnly,
		},
		{
			name:    "single native",
			matches: []ProcessMatch{{PID: 1}},
			want:    StateNative,
		},
		{
			name:    "single wine",
			matches: []ProcessMatch{{PID: 1, IsWine: true}},
			want:    StateWine,
		},
		{
			name:    "native wins over wine",
			matches: []ProcessMatch{{PID: 1, IsWine: true}, {PID: 2}},
			want:    StateNative,
		},
		{
			name:    "processes trump windows",
			matches: []ProcessMatch{{PID: 1, IsWine: true}},
			titles:  []string{"Toontown Rewritten"},
			want:    StateWine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateFor(tt.matches, tt.titles); got != tt.want {
				t.Errorf("StateFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateSummaryEqual(t *testing.T) {
	a := StateSummary{"Corporate Clash": StateNative, "Toontown Rewritten": StateNotRunning}

	if !a.Equal(StateSummary{"Corporate Clash": StateNative, "Toontown Rewritten": StateNotRunning}) {
		t.Error("identical summaries reported unequal")
	}
	if a.Equal(StateSummary{"Corporate Clash": StateWine, "Toontown Rewritten": StateNotRunning}) {
		t.Error("differing state reported equal")
	}
	if a.Equal(StateSummary{"Corporate Clash": StateNative}) {
		t.Error("differing length reported equal")
	}
}

func TestSnapshotWindowOnly(t *testing.T) {
	m := newTestMatcher(nil, []string{"Corporate Clash - Loading"})

	snap := m.Snapshot()

	if got := snap.State["Corporate Clash"]; got != StateWindowOnly {
		t.Errorf("Corporate Clash state = %q, want %q", got, StateWindowOnly)
	}
	if got := snap.State["Toontown Rewritten"]; got != StateNotRunning {
		t.Errorf("Toontown Rewritten state = %q, want %q", got, StateNotRunning)
	}
	if !strings.Contains(snap.Report, "Corporate Clash: RUNNING") {
		t.Errorf("report missing RUNNING line:\n%s", snap.Report)
	}
	if !strings.Contains(snap.Report, " - Window: Corporate Clash - Loading") {
		t.Errorf("report missing window line:\n%s", snap.Report)
	}
	if !strings.Contains(snap.Report, "Toontown Rewritten: not running") {
		t.Errorf("report missing not-running line:\n%s", snap.Report)
	}
}

func TestSnapshotLauncherWindowIgnored(t *testing.T) {
	m := newTestMatcher(nil, []string{"Corporate Clash Launcher"})

	snap := m.Snapshot()

	if got := snap.State["Corporate Clash"]; got != StateNotRunning {
		t.Errorf("Corporate Clash state = %q, want %q (launcher window must not count)", got, StateNotRunning)
	}
}

func TestSnapshotReportDetail(t *testing.T) {
	m := newTestMatcher([]ProcessInfo{
		{PID: 42, Name: "wine", Cmdline: "wine corporateclash.exe --version=1.2.13"},
	}, nil)

	snap := m.Snapshot()

	if got := snap.State["Corporate Clash"]; got != StateWine {
		t.Errorf("state = %q, want %q", got, StateWine)
	}
	want := " - PID 42 (Wine) - name=wine cmdline=wine corporateclash.exe --version=1.2.13 version=1.2.13"
	if !strings.Contains(snap.Report, want) {
		t.Errorf("report missing detail line %q:\n%s", want, snap.Report)
	}
}
