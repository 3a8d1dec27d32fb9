// Package peaque provides a full-stack web framework built around
// file-system routing for pages and API handlers.
//
// Peaque discovers pages under src/pages and API handlers under src/api
// by walking the directory tree, serves them behind a single dev server
// with hot module reload, and bundles them into a single-process
// production server for deployment.
//
// # Key Features
//
//   - File-System Routing: pages and API routes are discovered from
//     src/pages/**/page.tsx and src/api/**/route.ts, no manual registration
//   - Hot Module Reload: a WebSocket-driven dev server rebuilds affected
//     routes on save and pushes updates to connected browsers
//   - Production Build: a single orchestrated pipeline bundles pages, API
//     handlers, and background jobs into one deployable binary
//   - Server Actions: 'use server' exports are dispatched over the API
//     tree with automatic client-side shims
//   - Security: CSRF-guarded mutating requests, path traversal protection,
//     and input validation across the CLI
//
// # Quick Start
//
//	// Initialize a new peaque project
//	peaque init
//
//	// Start the development server
//	peaque dev
//
//	// Build for production
//	peaque build
//
//	// Run the production bundle
//	peaque start
//
// # Architecture
//
// The peaque module is organized into several core packages:
//
//   - CLI Commands (cmd/): Cobra-based command interface
//   - Route Tree (internal/routetree/): file-system discovery of pages and API routes
//   - Development Server (internal/devserver/): HTTP server with WebSocket-driven HMR
//   - Production Build (internal/build/): orchestrates bundling, asset rewriting, and the standalone server entry
//   - File Watcher (internal/watcher/): debounced file system monitoring feeding the dev server
//   - Server Actions (internal/action/): 'use server' export dispatch
//   - CSRF Guard (internal/csrf/): origin/token validation for mutating requests
//   - Configuration (internal/config/): Viper-based configuration management
//
// # Security
//
// Peaque implements defense-in-depth security measures:
//
//   - CSRF protection for all mutating server-action requests
//   - Path traversal protection with validation
//   - WebSocket origin validation
//   - Input validation across all user interfaces
//
// # Configuration
//
// Peaque supports configuration through multiple sources:
//
//   - Configuration file (peaque.config.yaml)
//   - Environment variables (PEAQUE_*)
//   - Command-line flags
//
// Example configuration:
//
//	server:
//	  port: 8080
//	  host: localhost
//	  environment: development
//
//	build:
//	  command: "peaque-bundler"
//	  watch:
//	    - "src/pages/**"
//	    - "src/api/**"
//	    - "src/jobs/**"
//	  cache_dir: ".peaque/cache"
//
//	development:
//	  hot_reload: true
//	  error_overlay: true
//
// # Testing
//
// The package includes comprehensive test coverage:
//
//   - Unit tests for individual components
//   - Integration tests for cross-component functionality
//   - Security tests for CSRF and path validation
//   - End-to-end tests for the dev server and production build pipeline
//
// For more information, see the individual package documentation.
package docs
