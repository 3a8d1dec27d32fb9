package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/peaque/internal/config"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run a previously built production bundle",
	Long: `Run the standalone backend entry a prior "peaque build" produced
under the project's dist directory. The child process is a plain node
invocation of dist/main.cjs; this command's exit code mirrors the
child's.

Examples:
  peaque start
  peaque start --port 4000`,
	RunE: runStart,
}

var (
	startPort int
	startBase string
)

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().IntVarP(&startPort, "port", "p", 3000, "Port for the production server to listen on")
	startCmd.Flags().StringVarP(&startBase, "base", "b", "", "Project root (overrides config)")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if startBase != "" {
		cfg.Build.Root = startBase
	}

	entryPath := filepath.Join(cfg.Build.Root, cfg.Build.DistDir, "main.cjs")
	if _, err := os.Stat(entryPath); err != nil {
		return fmt.Errorf("production bundle not found at %s (run \"peaque build\" first): %w", entryPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	child := exec.CommandContext(ctx, "node", entryPath, "--port", fmt.Sprint(startPort))
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.Stdin = os.Stdin

	if err := child.Start(); err != nil {
		return fmt.Errorf("failed to start production server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	waitErr := make(chan error, 1)
	go func() { waitErr <- child.Wait() }()

	select {
	case <-sigChan:
		_ = child.Process.Signal(syscall.SIGTERM)
		<-waitErr
		return nil
	case err := <-waitErr:
		if err == nil {
			return nil
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("production server exited: %w", err)
	}
}
