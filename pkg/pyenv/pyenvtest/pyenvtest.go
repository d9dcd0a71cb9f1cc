// Package pyenvtest builds fake site directories for tests.
package pyenvtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// DistInfo writes <site>/<name>-<version>.dist-info/METADATA declaring the
// given Requires-Dist values. With no requires the field is omitted.
func DistInfo(t testing.TB, site, name, version string, requires ...string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("Metadata-Version: 2.1\n")
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Version: %s\n", version)
	for _, r := range requires {
		fmt.Fprintf(&b, "Requires-Dist: %s\n", r)
	}
	b.WriteString("\nLong description body.\n")

	dir := filepath.Join(site, strings.ReplaceAll(name, "-", "_")+"-"+version+".dist-info")
	File(t, filepath.Join(dir, "METADATA"), b.String())
	return dir
}

// EggInfo writes <site>/<name>-<version>.egg-info with PKG-INFO and, when
// requires is non-empty, requires.txt.
func EggInfo(t testing.TB, site, name, version, requires string) string {
	t.Helper()

	dir := filepath.Join(site, name+"-"+version+".egg-info")
	File(t, filepath.Join(dir, "PKG-INFO"), fmt.Sprintf("Metadata-Version: 1.1\nName: %s\nVersion: %s\n", name, version))
	if requires != "" {
		File(t, filepath.Join(dir, "requires.txt"), requires)
	}
	return dir
}

// Package writes files of the given sizes (in bytes) under <site>/<dir>.
// Keys are slash-separated paths relative to the package directory.
func Package(t testing.TB, site, dir string, files map[string]int) string {
	t.Helper()

	root := filepath.Join(site, dir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	for rel, size := range files {
		File(t, filepath.Join(root, filepath.FromSlash(rel)), strings.Repeat("x", size))
	}
	return root
}

// File writes content to path, creating parent directories.
func File(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
