package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/peaque/internal/build"
	"github.com/conneroisu/peaque/internal/config"
	"github.com/conneroisu/peaque/internal/fsys"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Produce a standalone production bundle",
	Long: `Build the project for production: bundle the frontend and backend
entries, rewrite and precompress assets, render per-route head HTML, and
generate a standalone backend entry module under the project's dist
directory.

Examples:
  peaque build
  peaque build --output dist/prod
  peaque build --no-minify --analyze`,
	RunE: runBuild,
}

var (
	buildOutput  string
	buildBase    string
	buildAnalyze bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (overrides config)")
	buildCmd.Flags().StringVarP(&buildBase, "base", "b", "", "Project root (overrides config)")
	buildCmd.Flags().Bool("no-strict", false, "Disable strict mode checks")
	buildCmd.Flags().Bool("full-stack-traces", false, "Keep full stack traces in production errors")
	buildCmd.Flags().Bool("no-minify", false, "Skip minification")
	buildCmd.Flags().BoolVar(&buildAnalyze, "analyze", false, "Write a bundle size analysis alongside the build")
	buildCmd.Flags().Bool("no-asset-rewrite", false, "Skip rewriting src/public references to the asset prefix")
	buildCmd.Flags().Bool("serverless-frontend", false, "Build the frontend entry for a serverless target")
	buildCmd.Flags().Bool("no-react-compiler", false, "Disable the React compiler pass in the bundler")
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if buildBase != "" {
		cfg.Build.Root = buildBase
	}
	if noStrict, _ := cmd.Flags().GetBool("no-strict"); noStrict {
		cfg.Build.NoStrict = true
	}
	if fullTraces, _ := cmd.Flags().GetBool("full-stack-traces"); fullTraces {
		cfg.Build.FullStackTraces = true
	}
	if noMinify, _ := cmd.Flags().GetBool("no-minify"); noMinify {
		cfg.Build.NoMinify = true
	}
	if noRewrite, _ := cmd.Flags().GetBool("no-asset-rewrite"); noRewrite {
		cfg.Build.NoAssetRewrite = true
	}
	if serverless, _ := cmd.Flags().GetBool("serverless-frontend"); serverless {
		cfg.Build.ServerlessFrontend = true
	}
	if noReactCompiler, _ := cmd.Flags().GetBool("no-react-compiler"); noReactCompiler {
		cfg.Build.NoReactCompiler = true
	}
	if buildOutput != "" {
		cfg.Build.DistDir = buildOutput
	}

	fmt.Println("Building for production...")

	projectFS := fsys.NewOSFS()
	bundlerCmd := cfg.Build.Command
	if bundlerCmd == "" {
		bundlerCmd = "peaque-bundler"
	}
	if err := validateBuildCommand(bundlerCmd, nil); err != nil {
		return fmt.Errorf("refusing to run configured build command: %w", err)
	}

	builder := build.New(
		build.Config{Root: cfg.Build.Root, DistDir: cfg.Build.DistDir},
		projectFS,
		build.ExecBundler{Command: bundlerCmd},
		build.ExecHeadLoader{Command: bundlerCmd},
		build.NewBuildCache(64<<20, time.Hour),
	)

	ctx := context.Background()
	result, err := builder.Run(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if err := builder.Materialize(ctx, result); err != nil {
		return fmt.Errorf("failed to write build output: %w", err)
	}

	duration := time.Since(start)
	fmt.Printf("Build completed in %v\n", duration)
	fmt.Printf("  pages:    %d\n", len(result.Pages))
	fmt.Printf("  routes:   %d\n", len(result.APIRoutes))
	fmt.Printf("  jobs:     %d\n", len(result.Jobs))
	fmt.Printf("  assets:   %s\n", result.AssetDir)

	if buildAnalyze {
		fmt.Printf("  frontend bundle: %d bytes\n", len(result.FrontendJS))
		fmt.Printf("  css bundle:      %d bytes\n", len(result.CSS))
	}

	return nil
}
