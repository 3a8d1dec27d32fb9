package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/peaque/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Initialize a new peaque project",
	Long: `Initialize a new peaque project with the src/pages, src/api, and src/jobs
directory structure and a peaque.config.yaml. If no name is provided,
initializes in the current directory.

Examples:
  peaque init                # Initialize in current directory with an example page
  peaque init my-app         # Initialize in new directory 'my-app'
  peaque init --minimal      # Minimal setup without the example page
  peaque init --wizard       # Interactive configuration wizard`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initMinimal bool
	initWizard  bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initMinimal, "minimal", false, "Minimal setup without the example page")
	initCmd.Flags().BoolVar(&initWizard, "wizard", false, "Run configuration wizard during initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	var projectDir string

	if len(args) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		projectDir = cwd
	} else {
		projectDir = args[0]
		if err := os.MkdirAll(projectDir, 0755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}

	fmt.Printf("Initializing peaque project in %s\n", projectDir)

	if err := createDirectoryStructure(projectDir); err != nil {
		return fmt.Errorf("failed to create directory structure: %w", err)
	}

	if initWizard {
		if err := createConfigWithWizard(projectDir); err != nil {
			return fmt.Errorf("failed to create configuration with wizard: %w", err)
		}
	} else {
		if err := createConfigFile(projectDir); err != nil {
			return fmt.Errorf("failed to create configuration file: %w", err)
		}
	}

	if err := createGoModule(projectDir); err != nil {
		return fmt.Errorf("failed to create Go module: %w", err)
	}

	if !initMinimal {
		if err := createExamplePages(projectDir); err != nil {
			return fmt.Errorf("failed to create example pages: %w", err)
		}
	}

	fmt.Println("✓ Project initialized successfully!")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. cd " + projectDir)
	fmt.Println("  2. peaque dev")
	fmt.Println("  3. Open http://localhost:8080 in your browser")

	return nil
}

func createDirectoryStructure(projectDir string) error {
	dirs := []string{
		"src/pages",
		"src/api",
		"src/jobs",
		"src/public",
		".peaque",
		".peaque/cache",
	}

	for _, dir := range dirs {
		dirPath := filepath.Join(projectDir, dir)
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func createConfigFile(projectDir string) error {
	configPath := filepath.Join(projectDir, "peaque.config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("⚠ Configuration file already exists, skipping")
		return nil
	}

	configContent := `# Peaque configuration file
server:
  port: 8080
  host: localhost
  open: true

build:
  command: "peaque-bundler"
  watch:
    - "src/pages/**"
    - "src/api/**"
    - "src/jobs/**"
  ignore:
    - "*_test.go"
    - "node_modules/**"
    - ".git/**"
  cache_dir: ".peaque/cache"

development:
  hot_reload: true
  error_overlay: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Println("✓ Created peaque.config.yaml configuration file")
	return nil
}

func createGoModule(projectDir string) error {
	goModPath := filepath.Join(projectDir, "go.mod")

	if _, err := os.Stat(goModPath); err == nil {
		fmt.Println("⚠ go.mod already exists, skipping")
		return nil
	}

	projectName := filepath.Base(projectDir)
	if projectName == "." {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		projectName = filepath.Base(cwd)
	}

	projectName = strings.ToLower(projectName)
	projectName = strings.ReplaceAll(projectName, " ", "-")
	projectName = strings.ReplaceAll(projectName, "_", "-")

	goModContent := fmt.Sprintf(`module %s

go 1.24
`, projectName)

	if err := os.WriteFile(goModPath, []byte(goModContent), 0644); err != nil {
		return fmt.Errorf("failed to write go.mod: %w", err)
	}

	fmt.Println("✓ Created go.mod file")
	return nil
}

func createExamplePages(projectDir string) error {
	layoutPath := filepath.Join(projectDir, "src", "pages", "layout.tsx")
	layoutContent := `export default function Layout({ children }: { children: React.ReactNode }) {
  return (
    <html lang="en">
      <head>
        <meta charSet="UTF-8" />
        <title>Peaque App</title>
      </head>
      <body>{children}</body>
    </html>
  )
}
`
	if err := os.WriteFile(layoutPath, []byte(layoutContent), 0644); err != nil {
		return fmt.Errorf("failed to create layout page: %w", err)
	}

	pagePath := filepath.Join(projectDir, "src", "pages", "page.tsx")
	pageContent := `export default function HomePage() {
  return (
    <main>
      <h1>Welcome to Peaque</h1>
      <p>Edit src/pages/page.tsx and save to see hot reload in action.</p>
    </main>
  )
}
`
	if err := os.WriteFile(pagePath, []byte(pageContent), 0644); err != nil {
		return fmt.Errorf("failed to create home page: %w", err)
	}

	apiDir := filepath.Join(projectDir, "src", "api", "hello")
	if err := os.MkdirAll(apiDir, 0755); err != nil {
		return fmt.Errorf("failed to create example API route directory: %w", err)
	}

	routePath := filepath.Join(apiDir, "route.ts")
	routeContent := `export function GET() {
  return Response.json({ message: "hello from peaque" })
}
`
	if err := os.WriteFile(routePath, []byte(routeContent), 0644); err != nil {
		return fmt.Errorf("failed to create example API route: %w", err)
	}

	fmt.Println("✓ Created example page and API route")
	return nil
}

func createConfigWithWizard(projectDir string) error {
	fmt.Println("\n🧙 Running Configuration Wizard")
	fmt.Println("==============================")

	wizard := config.NewConfigWizard()

	cfg, err := wizard.Run()
	if err != nil {
		return fmt.Errorf("configuration wizard failed: %w", err)
	}

	validation := config.ValidateConfigWithDetails(cfg)
	if validation.HasErrors() {
		fmt.Println("\n❌ Configuration validation failed:")
		fmt.Print(validation.String())
		return fmt.Errorf("generated configuration is invalid")
	}

	if validation.HasWarnings() {
		fmt.Println("\n⚠️  Configuration warnings:")
		fmt.Print(validation.String())
	}

	configPath := filepath.Join(projectDir, "peaque.config.yaml")
	if err := wizard.WriteConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	return nil
}
