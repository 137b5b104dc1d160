package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SpeedsterCollective/Tweeks/internal/config"
	"github.com/SpeedsterCollective/Tweeks/internal/daemon"
	"github.com/SpeedsterCollective/Tweeks/internal/database"
	"github.com/SpeedsterCollective/Tweeks/internal/presence"
	"github.com/SpeedsterCollective/Tweeks/internal/watcher"
	"github.com/SpeedsterCollective/Tweeks/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the detection daemon with session history, web API and Discord presence",
	RunE:  runServe,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the detection daemon",
	RunE:  runStop,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tweeks version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(versionCmd)
}

func logPath() string {
	return fmt.Sprintf("/tmp/tweeks-%d.log", os.Getuid())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return err
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon is already running (PID: %d)", pid)
	}

	if !daemon.IsChild() {
		childPID, err := daemon.Spawn()
		if err != nil {
			return err
		}
		fmt.Printf("Daemon started successfully (PID: %d)\n", childPID)
		fmt.Printf("Web API available at: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
		fmt.Printf("Logs: %s\n", logPath())
		return nil
	}

	return runServeChild(cfg, dm)
}

func runServeChild(cfg *config.Config, dm *daemon.Daemon) error {
	logFile, err := os.OpenFile(logPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := newMatcher(cfg)

	if err := dm.WritePID(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer dm.RemovePID()

	repo := database.NewRepository(db)
	svc := watcher.NewService(cfg, m, repo, log.Writer())

	if cfg.Presence.Enabled {
		pc := presence.NewClient(cfg.Presence.ClientID)
		svc.AddListener(pc.Update)
		defer pc.Close()
	}

	webServer := web.NewServer(cfg, m, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("Web server error: %v", err)
		}
	}()

	go func() {
		if err := svc.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Watcher error: %v", err)
			cancel()
		}
	}()

	log.Println("Starting tweeks daemon...")
	log.Printf("Web API available at: http://%s", webServer.GetAddress())
	log.Printf("Configuration:\n%s", cfg.String())

	<-sigChan
	log.Println("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel()
	svc.Stop()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down web server: %v", err)
	}

	log.Println("Daemon stopped successfully")
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		return err
	}

	fmt.Println("Daemon stopped successfully")
	return nil
}
