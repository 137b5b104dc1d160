package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SpeedsterCollective/Tweeks/internal/config"
	"github.com/SpeedsterCollective/Tweeks/internal/gui"
	"github.com/SpeedsterCollective/Tweeks/internal/watcher"
	"github.com/SpeedsterCollective/Tweeks/pkg/matcher"
	"github.com/SpeedsterCollective/Tweeks/pkg/windows"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

var (
	flagStatus   bool
	flagJSON     bool
	flagWatch    bool
	flagInterval float64
)

var rootCmd = &cobra.Command{
	Use:   "tweeks",
	Short: "Detect Corporate Clash and Toontown Rewritten clients",
	Long: `tweeks detects whether Corporate Clash or Toontown Rewritten is running,
natively or under Wine, telling real game clients apart from their
launchers and updaters.

Examples:
  tweeks --status          # print current status once
  tweeks --status --json   # machine-readable status
  tweeks --watch           # continuously poll and report changes
  tweeks                   # open the status window
  tweeks serve             # background daemon with history, web API and
                           # Discord presence

Environment Variables:
  TWEEKS_DB_PATH               Database file path
  TWEEKS_POLL_INTERVAL         Poll interval in seconds
  TWEEKS_PID_FILE              PID file path
  TWEEKS_WEB_HOST              Web API host
  TWEEKS_WEB_PORT              Web API port
  TWEEKS_PRESENCE              Enable Discord presence (true/false)
  TWEEKS_RULES_PATH            Detection rules file path`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().BoolVar(&flagStatus, "status", false, "print current status once and exit")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "with --status, output machine-readable JSON")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "continuously watch and report changes")
	rootCmd.Flags().Float64Var(&flagInterval, "interval", 2.0, "polling interval in seconds for --watch")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	if cmd.Flags().Changed("interval") {
		interval := time.Duration(flagInterval * float64(time.Second))
		if err := cfg.SetPollInterval(interval); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m := newMatcher(cfg)

	if flagStatus {
		return printStatus(m)
	}

	if flagWatch {
		return runWatch(cfg, m)
	}

	gui.New(cfg, m).Run()
	return nil
}

// newMatcher loads the detection rules (built-ins when the file is absent)
// and wires the live process and window providers.
func newMatcher(cfg *config.Config) *matcher.Matcher {
	rules, err := config.LoadRules(cfg.Rules.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring detection rules: %v\n", err)
		rules = &config.DetectionRules{}
	}

	return matcher.New(rules.Targets(), matcher.SystemSource{}, windows.New())
}

func printStatus(m *matcher.Matcher) error {
	snap := m.Snapshot()

	if flagJSON {
		// compact JSON for easy parsing
		data, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(snap.Report)
	return nil
}

func runWatch(cfg *config.Config, m *matcher.Matcher) error {
	svc := watcher.NewService(cfg, m, nil, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
		svc.Stop()
	}()

	log.SetOutput(os.Stderr)
	if err := svc.Start(ctx); err != nil && err != context.Canceled {
		return err
	}

	fmt.Println("Exiting watch mode")
	return nil
}
