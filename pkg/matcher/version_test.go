package matcher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestVersionFromCmdline(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		want    string
	}{
		{"long flag with equals", "client --version=1.2.13 --play", "1.2.13"},
		{"long flag with space", "client --version 2.0.1", "2.0.1"},
		{"short flag", "client -v 3.4", "3.4"},
		{"spelled out short flag", "client -version 1.0.0", "1.0.0"},
		{"no version flag", "client --fullscreen", ""},
		{"bare number is not a flag", "client 1.2.3", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VersionFromCmdline(tt.cmdline); got != tt.want {
				t.Errorf("VersionFromCmdline(%q) = %q, want %q", tt.cmdline, got, tt.want)
			}
		})
	}
}

func TestVersionFromTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"v-prefixed", "Corporate Clash v1.2.13", "1.2.13"},
		{"bare dotted", "Toontown Rewritten 2.5", "2.5"},
		{"three components", "Client 10.0.1 beta", "10.0.1"},
		{"no version", "Corporate Clash", ""},
		{"single number only", "Window 7", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VersionFromTitle(tt.title); got != tt.want {
				t.Errorf("VersionFromTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestVersionFromExe(t *testing.T) {
	t.Run("token in tail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.bin")
		data := append(bytes.Repeat([]byte{0}, 16384), []byte("build v3.4.5\x00")...)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		if got := VersionFromExe(path); got != "3.4.5" {
			t.Errorf("VersionFromExe = %q, want 3.4.5", got)
		}
	})

	t.Run("token outside scanned tail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.bin")
		data := append([]byte("build v3.4.5\x00"), bytes.Repeat([]byte{0}, exeTailBytes*2)...)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		if got := VersionFromExe(path); got != "" {
			t.Errorf("VersionFromExe = %q, want empty for token before the tail window", got)
		}
	})

	t.Run("small file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.bin")
		if err := os.WriteFile(path, []byte("tiny 1.0"), 0o644); err != nil {
			t.Fatal(err)
		}
		if got := VersionFromExe(path); got != "1.0" {
			t.Errorf("VersionFromExe = %q, want 1.0", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if got := VersionFromExe("/nonexistent/client.bin"); got != "" {
			t.Errorf("VersionFromExe = %q, want empty", got)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if got := VersionFromExe(""); got != "" {
			t.Errorf("VersionFromExe = %q, want empty", got)
		}
	})

	t.Run("directory", func(t *testing.T) {
		if got := VersionFromExe(t.TempDir()); got != "" {
			t.Errorf("VersionFromExe = %q, want empty", got)
		}
	})
}

func TestVersionPriority(t *testing.T) {
	m := newTestMatcher([]ProcessInfo{
		{PID: 1, Name: "ttr_client", Cmdline: "/opt/ttr/ttr_client --version=9.9.9"},
	}, []string{"Toontown Rewritten v1.1.1"})

	results := m.Inspect()
	matches := results["Toontown Rewritten"]
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	if matches[0].Version != "9.9.9" {
		t.Errorf("Version = %q, want the cmdline flag to win over the window title", matches[0].Version)
	}
}

func TestVersionFallsBackToWindowTitle(t *testing.T) {
	m := newTestMatcher([]ProcessInfo{
		{PID: 1, Name: "ttr_client", Cmdline: "/opt/ttr/ttr_client"},
	}, []string{"Toontown Rewritten v1.1.1"})

	results := m.Inspect()
	matches := results["Toontown Rewritten"]
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	if matches[0].Version != "1.1.1" {
		t.Errorf("Version = %q, want 1.1.1 from the window title", matches[0].Version)
	}
}
