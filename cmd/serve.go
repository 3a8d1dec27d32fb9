package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/conneroisu/peaque/internal/config"
	"github.com/conneroisu/peaque/internal/devserver"
	"github.com/conneroisu/peaque/internal/errors"
	"github.com/conneroisu/peaque/internal/fsys"
	"github.com/conneroisu/peaque/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "dev",
	Short: "Start the development server with hot reload",
	Long: `Start the development server with hot reload capability.
Builds the page and API route trees from src/pages and src/api, serves
them over a single listener, and broadcasts HMR updates over /hmr as
files change underneath it.

Examples:
  peaque dev
  peaque dev --port 3000`,
	RunE: runServe,
}

var serveBase string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().StringVarP(&serveBase, "base", "b", "", "Project root (overrides config)")
	serveCmd.Flags().Bool("no-strict", false, "Disable strict mode checks")
	serveCmd.Flags().Bool("full-stack-traces", false, "Keep full stack traces in dev error overlays")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		suggestions := errors.ConfigurationError(err.Error(), "peaque.config.yaml", &errors.SuggestionContext{
			ConfigPath: "peaque.config.yaml",
		})
		return errors.NewEnhancedError("Failed to load configuration", err, suggestions)
	}

	if serveBase != "" {
		cfg.Build.Root = serveBase
	}
	if noStrict, _ := cmd.Flags().GetBool("no-strict"); noStrict {
		cfg.Build.NoStrict = true
	}
	if fullTraces, _ := cmd.Flags().GetBool("full-stack-traces"); fullTraces {
		cfg.Build.FullStackTraces = true
	}

	logger := logging.NewLogger(nil).WithComponent("devserver")

	bundlerCmd := cfg.Build.Command
	if bundlerCmd == "" {
		bundlerCmd = "peaque-bundler"
	}
	if err := validateCustomCommand(bundlerCmd, nil); err != nil {
		return fmt.Errorf("refusing to run configured build command: %w", err)
	}
	backend := devserver.ExecBackend{Command: bundlerCmd}

	srv := devserver.New(
		devserver.Config{
			Root:           cfg.Build.Root,
			TrustedOrigins: cfg.Server.AllowedOrigins,
		},
		fsys.NewOSFS(),
		backend,
		backend,
		devserver.ExecParser{Command: bundlerCmd},
		devserver.ExecModuleLoader{Command: bundlerCmd},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx, devserver.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start dev server: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if strings.Contains(err.Error(), "address already in use") || strings.Contains(err.Error(), "bind") {
				suggestions := errors.ServerStartError(err, cfg.Server.Port, &errors.SuggestionContext{})
				serverErr <- errors.NewEnhancedError(
					fmt.Sprintf("Failed to start server on port %d", cfg.Server.Port),
					err,
					suggestions,
				)
				return
			}
			serverErr <- fmt.Errorf("server error: %w", err)
			return
		}
		serverErr <- nil
	}()

	fmt.Printf("Starting Peaque dev server at http://%s\n", addr)

	select {
	case err := <-serverErr:
		return err
	case <-sigChan:
		log.Println("Shutting down server...")
		srv.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during server shutdown: %v", err)
			return err
		}
		return nil
	}
}
