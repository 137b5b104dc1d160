package matcher

import (
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessInfo is the raw view of one OS process used for matching.
type ProcessInfo struct {
	PID     int32
	Name    string
	Cmdline string
	Exe     string
}

// Source enumerates running processes. Implementations never return an
// error: a process that vanishes or denies access mid-scan is simply absent
// from the result.
type Source interface {
	Processes() []ProcessInfo
}

// SystemSource reads the live OS process table.
type SystemSource struct{}

// Processes walks the process table once. Per-process failures (gone,
// permission denied) skip that process; cmdline and exe path are optional
// and left empty when unreadable.
func (SystemSource) Processes() []ProcessInfo {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}

	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}

		cmdline, _ := p.Cmdline()
		exe, _ := p.Exe()

		out = append(out, ProcessInfo{
			PID:     p.Pid,
			Name:    name,
			Cmdline: cmdline,
			Exe:     exe,
		})
	}
	return out
}
