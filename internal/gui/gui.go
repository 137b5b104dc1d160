// Package gui shows a small always-on status window with one line per
// target. It is a plain consumer of the matcher: a ticker re-scans and the
// labels follow. No overlay chrome lives here.
package gui

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/SpeedsterCollective/Tweeks/internal/config"
	"github.com/SpeedsterCollective/Tweeks/pkg/matcher"
)

var (
	colorRunning = color.NRGBA{R: 0, G: 177, B: 87, A: 255}
	colorStopped = color.NRGBA{R: 217, G: 83, B: 79, A: 255}
	colorTitle   = color.NRGBA{R: 66, G: 139, B: 202, A: 255}
)

// StatusWindow is the desktop status view.
type StatusWindow struct {
	config  *config.Config
	matcher *matcher.Matcher

	window fyne.Window
	dots   map[string]*canvas.Circle
	labels map[string]*widget.Label
	order  []string
}

// New builds the window for the matcher's current targets.
func New(cfg *config.Config, m *matcher.Matcher) *StatusWindow {
	return &StatusWindow{
		config:  cfg,
		matcher: m,
		dots:    make(map[string]*canvas.Circle),
		labels:  make(map[string]*widget.Label),
	}
}

// Run opens the window and blocks until it is closed.
func (s *StatusWindow) Run() {
	a := app.New()
	s.window = a.NewWindow("Speedster Tweaks")
	s.window.Resize(fyne.NewSize(360, 180))

	title := canvas.NewText("Speedster Tweaks", colorTitle)
	title.TextSize = 18
	title.TextStyle = fyne.TextStyle{Bold: true}

	rows := container.NewVBox(title, widget.NewSeparator())
	for _, t := range s.matcher.Targets() {
		dot := canvas.NewCircle(colorStopped)
		dot.Resize(fyne.NewSize(12, 12))
		label := widget.NewLabel(t.Name + ": checking...")

		s.dots[t.Name] = dot
		s.labels[t.Name] = label
		s.order = append(s.order, t.Name)

		rows.Add(container.NewHBox(container.NewCenter(dot), label))
	}

	s.window.SetContent(container.NewPadded(rows))

	stop := make(chan struct{})
	s.window.SetOnClosed(func() { close(stop) })
	go s.refreshLoop(stop)

	s.window.ShowAndRun()
}

func (s *StatusWindow) refreshLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(s.config.Scanner.PollInterval)
	defer ticker.Stop()

	s.refresh()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

func (s *StatusWindow) refresh() {
	snap := s.matcher.Snapshot()

	fyne.Do(func() {
		for _, name := range s.order {
			state := snap.State[name]
			s.labels[name].SetText(fmt.Sprintf("%s: %s", name, describe(state)))

			if state == matcher.StateNotRunning {
				s.dots[name].FillColor = colorStopped
			} else {
				s.dots[name].FillColor = colorRunning
			}
			s.dots[name].Refresh()
		}
	})
}

func describe(state string) string {
	switch state {
	case matcher.StateNative:
		return "running (native)"
	case matcher.StateWine:
		return "running (Wine)"
	case matcher.StateWindowOnly:
		return "window detected"
	default:
		return "not running"
	}
}
