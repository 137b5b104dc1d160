package windows

import (
	"encoding/json"

	"github.com/godbus/dbus/v5"
)

const gnomeTitlesScript = `JSON.stringify(global.get_window_actors().map(a => a.meta_window.get_title() || ''))`

// GnomeLister asks GNOME Shell for window titles over the session bus. This
// only works when the shell exposes the (unsafe-mode) Eval interface; any
// refusal simply yields no titles.
type GnomeLister struct{}

// NewGnomeLister creates the GNOME Shell lister.
func NewGnomeLister() *GnomeLister {
	return &GnomeLister{}
}

// ListTitles evaluates a small script inside GNOME Shell and decodes the
// resulting JSON string array.
func (l *GnomeLister) ListTitles() []string {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil
	}

	obj := conn.Object("org.gnome.Shell", "/org/gnome/Shell")

	var ok bool
	var result string
	if err := obj.Call("org.gnome.Shell.Eval", 0, gnomeTitlesScript).Store(&ok, &result); err != nil || !ok {
		return nil
	}

	return ParseGnomeTitles(result)
}

// ParseGnomeTitles decodes the JSON array returned by the shell script,
// dropping empty entries.
func ParseGnomeTitles(result string) []string {
	var raw []string
	if err := json.Unmarshal([]byte(result), &raw); err != nil {
		return nil
	}

	var titles []string
	for _, t := range raw {
		if t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}
