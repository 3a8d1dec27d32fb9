package cmd

import (
	"fmt"
	"strings"
)

// allowedBundlerCommands is the allowlist of executables peaque is willing
// to shell out to for cfg.Build.Command. The bundler itself is always
// allowed, along with a handful of common JS runtimes and package managers.
// The command string is matched whole, so a value with arguments such as
// "npm run bundle" is rejected.
var allowedBundlerCommands = map[string]bool{
	"peaque-bundler": true,
	"node":           true,
	"npm":            true,
	"yarn":           true,
	"pnpm":           true,
	"bun":            true,
}

// validateCommand checks a command name against an allowlist.
func validateCommand(command string, allowedCommands map[string]bool) error {
	if !allowedCommands[command] {
		return fmt.Errorf("command '%s' is not allowed", command)
	}
	return nil
}

// validateArgument rejects a single argument containing shell metacharacters
// or path traversal, since cfg.Build.Command/Args come from a config file
// that may not be trusted to the same degree as the binary invoking it.
func validateArgument(arg string) error {
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "[", "]", "<", ">", "\"", "'", "\\"}
	for _, char := range dangerousChars {
		if strings.Contains(arg, char) {
			return fmt.Errorf("contains dangerous character: %s", char)
		}
	}

	if strings.Contains(arg, "..") {
		return fmt.Errorf("path traversal attempt detected")
	}

	if strings.HasPrefix(arg, "/") && !strings.HasPrefix(arg, "/tmp/") && !strings.HasPrefix(arg, "/usr/") {
		return fmt.Errorf("absolute path not allowed: %s", arg)
	}

	return nil
}

// validateArguments validates every argument in a slice.
func validateArguments(args []string) error {
	for _, arg := range args {
		if err := validateArgument(arg); err != nil {
			return fmt.Errorf("invalid argument '%s': %w", arg, err)
		}
	}
	return nil
}

// validateBuildCommand validates cfg.Build.Command/Args before they are
// handed to build.ExecBundler/ExecHeadLoader.
func validateBuildCommand(command string, args []string) error {
	if err := validateCommand(command, allowedBundlerCommands); err != nil {
		return fmt.Errorf("build command validation failed: %w", err)
	}
	return validateArguments(args)
}

// validateCustomCommand validates the same way for devserver.ExecBackend/
// ExecParser/ExecModuleLoader's command.
func validateCustomCommand(command string, args []string) error {
	if err := validateCommand(command, allowedBundlerCommands); err != nil {
		return fmt.Errorf("custom command validation failed: %w", err)
	}
	return validateArguments(args)
}
