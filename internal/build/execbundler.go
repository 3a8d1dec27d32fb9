package build

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/conneroisu/peaque/internal/head"
)

// ExecBundler shells out to the external bundler collaborator (spec.md §6:
// "the JavaScript bundler backend — esbuild/Babel equivalents" is out of
// scope for this module) via a single configured command. Each bundling
// operation ("frontend"/"css"/"backend") is passed as the argument after
// Args, with the entry source (for "css", the project root) on stdin, and
// is expected to reply on stdout with a JSON object matching
// FrontendBundle for "frontend", or raw bytes for "css"/"backend".
type ExecBundler struct {
	// Command is the external bundler's executable name, e.g. "node", with
	// any script path such as "tools/bundle.mjs" given in Args.
	Command string
	Args    []string
}

func (e ExecBundler) run(ctx context.Context, op, input string) ([]byte, error) {
	args := append(append([]string{}, e.Args...), op)
	cmd := exec.CommandContext(ctx, e.Command, args...)
	cmd.Stdin = bytes.NewBufferString(input)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// BundleFrontend implements Bundler.
func (e ExecBundler) BundleFrontend(ctx context.Context, entrySource string) (FrontendBundle, error) {
	out, err := e.run(ctx, "frontend", entrySource)
	if err != nil {
		return FrontendBundle{}, err
	}
	var bundle FrontendBundle
	if err := json.Unmarshal(out, &bundle); err != nil {
		return FrontendBundle{}, err
	}
	return bundle, nil
}

// BundleCSS implements Bundler.
func (e ExecBundler) BundleCSS(ctx context.Context, root string) ([]byte, error) {
	return e.run(ctx, "css", root)
}

// BundleBackend implements Bundler.
func (e ExecBundler) BundleBackend(ctx context.Context, entrySource string) ([]byte, error) {
	return e.run(ctx, "backend", entrySource)
}

// ExecHeadLoader shells out to the same kind of external command to parse
// a head.ts module reference into a head.Descriptor, the production-build
// counterpart of whatever parses head.ts for dev requests.
type ExecHeadLoader struct {
	Command string
	Args    []string
}

// LoadHead implements HeadLoader.
func (e ExecHeadLoader) LoadHead(ctx context.Context, fileRef string) (head.Descriptor, error) {
	args := append(append([]string{}, e.Args...), "head", fileRef)
	cmd := exec.CommandContext(ctx, e.Command, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return head.Descriptor{}, err
	}
	var d head.Descriptor
	if err := json.Unmarshal(stdout.Bytes(), &d); err != nil {
		return head.Descriptor{}, err
	}
	return d, nil
}
