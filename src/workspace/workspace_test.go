package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sailkite/dockyard/src/model"
)

func write(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestMaterialize_CopiesFilesAndDirs(t *testing.T) {
	root := t.TempDir()
	write(t, root, "Dockerfile", "FROM scratch\n")
	write(t, root, "app/bin/start.sh", "#!/bin/sh\n")

	img := model.NewImage("main")
	img.Files.Set([]string{"Dockerfile", "app"})

	ws := New(root)
	if err := ws.Materialize(context.Background(), img); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	dir := ws.Dir("main")
	if got := read(t, filepath.Join(dir, "Dockerfile")); got != "FROM scratch\n" {
		t.Errorf("Dockerfile content = %q", got)
	}
	if got := read(t, filepath.Join(dir, "app", "bin", "start.sh")); got != "#!/bin/sh\n" {
		t.Errorf("nested file content = %q", got)
	}
}

func TestMaterialize_RebuildsFromScratch(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", "a")

	img := model.NewImage("main")
	img.Files.Set([]string{"a.txt"})

	ws := New(root)
	if err := ws.Materialize(context.Background(), img); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	// Plant a stale file, re-materialize, it must be gone.
	stale := filepath.Join(ws.Dir("main"), "stale.txt")
	write(t, filepath.Dir(stale), "stale.txt", "old")
	if err := ws.Materialize(context.Background(), img); err != nil {
		t.Fatalf("second materialize: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived re-materialization")
	}
}

func TestMaterialize_EmptyFileSpec(t *testing.T) {
	img := model.NewImage("main")
	ws := New(t.TempDir())
	if err := ws.Materialize(context.Background(), img); err != nil {
		t.Fatalf("materialize: %v", err)
	}
	entries, err := os.ReadDir(ws.Dir("main"))
	if err != nil {
		t.Fatalf("read context dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty context, got %v", entries)
	}
}

func TestMaterialize_RendersJVMDockerfile(t *testing.T) {
	img := model.NewImage("main")
	img.JVM = &model.JVMSpec{BaseImage: "eclipse-temurin", BaseTag: "21-jre", AppName: "svc"}

	ws := New(t.TempDir())
	if err := ws.Materialize(context.Background(), img); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	got := read(t, filepath.Join(ws.Dir("main"), "Dockerfile"))
	if !strings.HasPrefix(got, "FROM eclipse-temurin:21-jre\n") {
		t.Errorf("generated Dockerfile:\n%s", got)
	}
	if !strings.Contains(got, `"svc.jar"`) {
		t.Errorf("entrypoint missing app jar:\n%s", got)
	}
}
