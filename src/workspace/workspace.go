// Package workspace materializes build-context directories from image
// file specs. Each prepare task rebuilds its image's context from scratch
// so stale files never leak into a build.
package workspace

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sailkite/dockyard/src/jvmfile"
	"github.com/sailkite/dockyard/src/model"
)

// contextRoot is where build contexts live, relative to the project root.
const contextRoot = ".dockyard/context"

// Workspace owns the build-context directories for one project.
type Workspace struct {
	// ProjectRoot is the directory declarations are resolved against.
	ProjectRoot string
}

// New creates a workspace rooted at the project directory.
func New(projectRoot string) *Workspace {
	return &Workspace{ProjectRoot: projectRoot}
}

// Dir returns the build-context directory for an image.
func (w *Workspace) Dir(imageName string) string {
	return filepath.Join(w.ProjectRoot, contextRoot, imageName)
}

// Materialize rebuilds the image's context directory: the declared files
// are copied in, and for JVM images the generated Dockerfile is written.
func (w *Workspace) Materialize(ctx context.Context, img *model.Image) error {
	dir := w.Dir(img.Name)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing context %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating context %s: %w", dir, err)
	}

	for _, src := range img.Files.Get() {
		if err := ctx.Err(); err != nil {
			return err
		}
		abs := src
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(w.ProjectRoot, src)
		}
		if err := copyInto(abs, dir); err != nil {
			return fmt.Errorf("copying %s into context: %w", src, err)
		}
	}

	if img.JVM != nil {
		content, err := jvmfile.Render(img.JVM.BaseImage, img.JVM.BaseTag, img.JVM.AppName, img.JVM.Extra)
		if err != nil {
			return fmt.Errorf("rendering Dockerfile: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing Dockerfile: %w", err)
		}
	}

	return nil
}

// copyInto copies a file or directory tree under dst, keeping the source's
// base name.
func copyInto(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	target := filepath.Join(dst, filepath.Base(src))
	if !info.IsDir() {
		return copyFile(src, target, info.Mode())
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(target, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, out, fi.Mode())
	})
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
