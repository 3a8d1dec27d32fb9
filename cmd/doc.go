// Package cmd provides the command-line interface for peaque.
//
// This package implements all CLI commands using the Cobra framework,
// providing the tools to develop and ship a file-system routed application.
//
// # Available Commands
//
//   - init: Initialize a new peaque project
//   - dev: Start the development server with hot reload
//   - build: Bundle the project for production
//   - start: Run a previously built production bundle
//
// # Command Examples
//
//	// Initialize a new project
//	peaque init my-app --minimal
//
//	// Start development server
//	peaque dev --port 3000
//
//	// Production build
//	peaque build --analyze
//
//	// Run the production bundle
//	peaque start --port 4000
//
// # Security Considerations
//
// All commands implement security hardening:
//
//   - Input validation for all parameters
//   - Path traversal protection for file operations
//   - Command injection prevention in build operations
//
// # Configuration Integration
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (PEAQUE_*)
//  3. Configuration file (peaque.config.yaml)
//  4. Default values (lowest priority)
//
// # Error Handling
//
// All commands provide structured error reporting with:
//
//   - Clear error messages for common issues
//   - Detailed logging in debug mode
//   - Exit codes following Unix conventions
//   - Graceful handling of interrupts (Ctrl+C)
//
// For detailed usage of individual commands, see their respective documentation.
package cmd
