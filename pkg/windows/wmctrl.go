package windows

import (
	"os/exec"
	"strings"
)

// WmctrlLister shells out to `wmctrl -l` for the window list.
type WmctrlLister struct {
	hasWmctrl bool
}

// NewWmctrlLister creates the lister, recording whether wmctrl is on PATH.
func NewWmctrlLister() *WmctrlLister {
	_, err := exec.LookPath("wmctrl")
	return &WmctrlLister{hasWmctrl: err == nil}
}

// Available reports whether the wmctrl tool was found.
func (l *WmctrlLister) Available() bool {
	return l.hasWmctrl
}

// ListTitles runs wmctrl and parses the title column. A missing tool or a
// failed run yields an empty list.
func (l *WmctrlLister) ListTitles() []string {
	if !l.hasWmctrl {
		return nil
	}

	out, err := exec.Command("wmctrl", "-l").Output()
	if err != nil {
		return nil
	}

	return ParseWmctrlOutput(string(out))
}

// ParseWmctrlOutput extracts window titles from `wmctrl -l` output. Each line
// is "<win id> <desktop> <host> <title...>"; lines without a title column are
// skipped.
func ParseWmctrlOutput(out string) []string {
	var titles []string
	for _, line := range strings.Split(out, "\n") {
		if title := wmctrlTitle(line); title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}

// wmctrlTitle skips the first three whitespace-separated columns and returns
// the remainder, preserving spaces inside the title itself.
func wmctrlTitle(line string) string {
	rest := line
	for i := 0; i < 3; i++ {
		rest = strings.TrimLeft(rest, " \t")
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			return ""
		}
		rest = rest[idx:]
	}
	return strings.TrimSpace(rest)
}
