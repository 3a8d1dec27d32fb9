package build

import (
	"bytes"
	"compress/gzip"
	"context"

	"github.com/andybalholm/brotli"
)

// publicPrefix is the absolute path a page/component uses to reference a
// file under src/public (spec.md §4.H step 3): "/src/public/logo.png"
// becomes "<assetPrefix>/logo.png" once materialized.
const publicPrefix = "/src/public/"

// RewritePublicReferences rewrites every occurrence of an absolute
// src/public reference in source to assetPrefix, used on both the bundled
// JS (step 3) and the bundled CSS (step 4).
func RewritePublicReferences(source []byte, assetPrefix string) []byte {
	return bytes.ReplaceAll(source, []byte(publicPrefix), []byte(assetPrefix+"/"))
}

// Materialize writes a completed Run result to disk under cfg.DistDir:
// copies the public folder into the asset directory (step 5), writes the
// bundled JS/CSS/head HTML/backend entry/loader, then precompresses every
// asset-directory file (step 6).
func (b *Builder) Materialize(ctx context.Context, result *Result) error {
	if err := b.fs.MkdirAll(result.AssetDir); err != nil {
		return err
	}

	if b.fs.Exists(b.cfg.PublicDir) {
		if err := b.fs.CopyRecursive(b.cfg.PublicDir, result.AssetDir); err != nil {
			return err
		}
	}

	if err := b.fs.WriteFile(result.AssetDir+"/entry.js", result.FrontendJS); err != nil {
		return err
	}
	if err := b.fs.WriteFile(result.AssetDir+"/styles.css", result.CSS); err != nil {
		return err
	}
	if err := b.fs.WriteFile(b.cfg.DistDir+"/server.cjs", []byte(result.BackendEntrySource)); err != nil {
		return err
	}
	if err := b.fs.WriteFile(b.cfg.DistDir+"/main.cjs", []byte(result.MainCJSSource)); err != nil {
		return err
	}
	for key, html := range result.HeadHTML {
		if err := b.fs.WriteFile(b.cfg.DistDir+"/head-"+key+".html", []byte(html)); err != nil {
			return err
		}
	}

	return b.precompressDir(result.AssetDir)
}

// precompressDir writes a .gz and .br sibling for every file directly
// written under dir, each sibling's mtime set to match its source so a
// rerun over an unchanged tree is idempotent (spec.md §4.H step 6).
func (b *Builder) precompressDir(dir string) error {
	entries, err := b.fs.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		path := dir + "/" + e.Name
		if e.IsDir {
			if err := b.precompressDir(path); err != nil {
				return err
			}
			continue
		}
		if hasCompressedSuffix(e.Name) {
			continue
		}
		if err := b.precompressFile(path); err != nil {
			return err
		}
	}
	return nil
}

func hasCompressedSuffix(name string) bool {
	return len(name) > 3 && (name[len(name)-3:] == ".gz" || name[len(name)-3:] == ".br")
}

func (b *Builder) precompressFile(path string) error {
	info, err := b.fs.Stat(path)
	if err != nil {
		return err
	}
	data, err := b.fs.ReadFile(path)
	if err != nil {
		return err
	}

	gz, err := gzipBytes(data)
	if err != nil {
		return err
	}
	if err := b.fs.WriteFile(path+".gz", gz); err != nil {
		return err
	}
	if err := b.fs.SetTimes(path+".gz", info.ModTime, info.ModTime); err != nil {
		return err
	}

	br, err := brotliBytes(data)
	if err != nil {
		return err
	}
	if err := b.fs.WriteFile(path+".br", br); err != nil {
		return err
	}
	return b.fs.SetTimes(path+".br", info.ModTime, info.ModTime)
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func brotliBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
