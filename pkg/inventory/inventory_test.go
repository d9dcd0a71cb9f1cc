package inventory

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
	"github.com/matzehuels/depsize/pkg/pyenv"
	"github.com/matzehuels/depsize/pkg/pyenv/pyenvtest"
)

func openEnv(t *testing.T, dirs ...string) *pyenv.Environment {
	t.Helper()
	env, err := pyenv.Open(dirs, log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("pyenv.Open: %v", err)
	}
	return env
}

func TestDependencyName(t *testing.T) {
	tests := []struct {
		req, want string
	}{
		{"requests (>=2.0)", "requests"},
		{"B ( >=1.0)", "B"},
		{"PySocks (!=1.5.7,>=1.5.6) ; extra == 'socks'", "PySocks"},
		{"idna>=2.5", "idna>=2.5"},
		{"click", "click"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.req, func(t *testing.T) {
			if got := DependencyName(tt.req); got != tt.want {
				t.Errorf("DependencyName(%q) = %q, want %q", tt.req, got, tt.want)
			}
		})
	}
}

func TestDirSize(t *testing.T) {
	site := t.TempDir()
	root := pyenvtest.Package(t, site, "pkg", map[string]int{
		"__init__.py":     100,
		"core.py":         250,
		"sub/__init__.py": 0,
		"sub/data.bin":    1024,
	})

	got, err := DirSize(root)
	if err != nil {
		t.Fatalf("DirSize: %v", err)
	}
	if got != 1374 {
		t.Errorf("DirSize() = %d, want 1374", got)
	}
}

func TestDirSizeSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	site := t.TempDir()
	outside := pyenvtest.Package(t, site, "outside", map[string]int{"big.bin": 5000})
	target := filepath.Join(site, "target.txt")
	pyenvtest.File(t, target, strings.Repeat("y", 40))

	root := pyenvtest.Package(t, site, "pkg", map[string]int{"a.py": 10})
	if err := os.Symlink(target, filepath.Join(root, "link.txt")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "linked-dir")); err != nil {
		t.Fatal(err)
	}

	got, err := DirSize(root)
	if err != nil {
		t.Fatalf("DirSize: %v", err)
	}
	if got != 50 {
		t.Errorf("DirSize() = %d, want 50 (file link followed, dir link skipped)", got)
	}

	if err := os.Symlink(filepath.Join(site, "gone"), filepath.Join(root, "dangling")); err != nil {
		t.Fatal(err)
	}
	if _, err := DirSize(root); err == nil {
		t.Error("DirSize() with dangling link should fail")
	}
}

func TestPackageSize(t *testing.T) {
	site := t.TempDir()
	pyenvtest.DistInfo(t, site, "requests", "2.32.3")
	pyenvtest.Package(t, site, "requests", map[string]int{"__init__.py": 700, "api.py": 300})
	pyenvtest.DistInfo(t, site, "PyYAML", "6.0.1")
	pyenvtest.Package(t, site, "yaml", map[string]int{"__init__.py": 10})
	pyenvtest.DistInfo(t, site, "typing_extensions", "4.12.0")
	pyenvtest.File(t, filepath.Join(site, "typing_extensions.py"), "x")
	env := openEnv(t, site)

	n, err := PackageSize(env, "requests")
	if err != nil || n != 1000 {
		t.Errorf("PackageSize(requests) = %d, %v; want 1000", n, err)
	}

	for _, name := range []string{"PyYAML", "typing_extensions"} {
		_, err := PackageSize(env, name)
		if !deperrors.Is(err, deperrors.ErrCodeFileNotFound) {
			t.Errorf("PackageSize(%s) error = %v, want FILE_NOT_FOUND", name, err)
		}
		if err != nil && !strings.Contains(err.Error(), "does not exist") {
			t.Errorf("PackageSize(%s) error = %q, want directory message", name, err)
		}
	}

	if _, err := PackageSize(env, "missing"); !deperrors.Is(err, deperrors.ErrCodePackageNotFound) {
		t.Errorf("PackageSize(missing) error = %v, want PACKAGE_NOT_FOUND", err)
	}
}

func TestPackageSizeUsesEntryProjectName(t *testing.T) {
	site := t.TempDir()
	// Current wheels lowercase the metadata directory but keep the declared
	// capitalization in METADATA.
	pyenvtest.File(t, filepath.Join(site, "pygments-2.19.2.dist-info", "METADATA"),
		"Metadata-Version: 2.4\nName: Pygments\nVersion: 2.19.2\n")
	pyenvtest.Package(t, site, "pygments", map[string]int{"__init__.py": 4000, "lexers/python.py": 96})
	env := openEnv(t, site)

	n, err := PackageSize(env, "Pygments")
	if err != nil || n != 4096 {
		t.Errorf("PackageSize(Pygments) = %d, %v; want 4096", n, err)
	}

	d, _ := env.Get("Pygments")
	if got, want := PackageDir(d), filepath.Join(site, "pygments"); got != want {
		t.Errorf("PackageDir() = %q, want %q", got, want)
	}
}

func TestPackageSizeFileAtPackagePath(t *testing.T) {
	site := t.TempDir()
	pyenvtest.DistInfo(t, site, "six", "1.16.0")
	pyenvtest.File(t, filepath.Join(site, "six"), strings.Repeat("s", 300))
	env := openEnv(t, site)

	n, err := PackageSize(env, "six")
	if err != nil || n != 0 {
		t.Errorf("PackageSize(six) = %d, %v; want 0 with no error", n, err)
	}
}

func TestListDependencies(t *testing.T) {
	site := t.TempDir()
	pyenvtest.DistInfo(t, site, "requests", "2.32.3", "idna (<4,>=2.5)", "urllib3 (<3,>=1.21.1)", "PySocks (>=1.5.6) ; extra == 'socks'")
	pyenvtest.DistInfo(t, site, "idna", "3.7")
	env := openEnv(t, site)

	deps, declared, err := ListDependencies(env, "requests")
	if err != nil {
		t.Fatalf("ListDependencies(requests): %v", err)
	}
	if !declared || !slices.Equal(deps, []string{"idna", "urllib3", "PySocks"}) {
		t.Errorf("ListDependencies(requests) = %v, %v", deps, declared)
	}

	deps, declared, err = ListDependencies(env, "idna")
	if err != nil || declared || deps == nil || len(deps) != 0 {
		t.Errorf("ListDependencies(idna) = %#v, %v, %v; want empty, undeclared", deps, declared, err)
	}

	deps, _, err = ListDependencies(env, "missing")
	if err == nil || deps != nil {
		t.Errorf("ListDependencies(missing) = %#v, %v; want nil and error", deps, err)
	}
}

func TestCollect(t *testing.T) {
	site := t.TempDir()
	pyenvtest.DistInfo(t, site, "requests", "2.32.3", "idna (<4,>=2.5)")
	pyenvtest.Package(t, site, "requests", map[string]int{"__init__.py": 1000})
	pyenvtest.DistInfo(t, site, "idna", "3.7")
	pyenvtest.Package(t, site, "idna", map[string]int{"core.py": 2000})
	pyenvtest.DistInfo(t, site, "PyYAML", "6.0.1")
	env := openEnv(t, site)

	var logs bytes.Buffer
	inv, err := NewCollector(env, log.New(&logs)).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if !slices.Equal(inv.Names(), []string{"PyYAML", "idna", "requests"}) {
		t.Errorf("Names() = %v", inv.Names())
	}

	req, _ := inv.Get("requests")
	if !req.Measured() || *req.Size != 1000 {
		t.Errorf("requests size = %v, want 1000", req.Size)
	}
	if !slices.Equal(req.Dependencies, []string{"idna"}) {
		t.Errorf("requests deps = %v", req.Dependencies)
	}

	yaml, _ := inv.Get("PyYAML")
	if yaml.Measured() {
		t.Errorf("PyYAML size = %d, want unmeasured", *yaml.Size)
	}
	if yaml.Dependencies == nil {
		t.Error("PyYAML dependencies should be empty, not nil")
	}

	out := logs.String()
	if !strings.Contains(out, "Package 'idna' has no dependencies.") {
		t.Errorf("missing no-dependencies diagnostic in logs:\n%s", out)
	}
	if !strings.Contains(out, "does not exist") {
		t.Errorf("missing size diagnostic in logs:\n%s", out)
	}
}

// stubEnv lists distributions that its lookup cannot find.
type stubEnv struct {
	dists []*pyenv.Distribution
}

func (s stubEnv) Distributions() []*pyenv.Distribution { return s.dists }

func (s stubEnv) Get(name string) (*pyenv.Distribution, error) {
	return nil, deperrors.New(deperrors.ErrCodePackageNotFound, "Package '%s' not found.", name)
}

func TestCollectLookupFailureNormalizesDependencies(t *testing.T) {
	env := stubEnv{dists: []*pyenv.Distribution{{Name: "ghost"}}}

	inv, err := NewCollector(env, log.New(&bytes.Buffer{})).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	p, ok := inv.Get("ghost")
	if !ok {
		t.Fatal("ghost not recorded")
	}
	if p.Measured() || p.Dependencies == nil || len(p.Dependencies) != 0 {
		t.Errorf("ghost = %+v, want unmeasured with empty dependencies", p)
	}
}

func TestCollectCancelled(t *testing.T) {
	env := stubEnv{dists: []*pyenv.Distribution{{Name: "a"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCollector(env, log.New(&bytes.Buffer{})).Collect(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Collect() error = %v, want context.Canceled", err)
	}
}

func TestInventoryLastWriteWins(t *testing.T) {
	inv := New(
		Package{Name: "a", Size: Bytes(1)},
		Package{Name: "b", Size: Bytes(2)},
		Package{Name: "a", Size: Bytes(3)},
	)

	if inv.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", inv.Len())
	}
	if !slices.Equal(inv.Names(), []string{"a", "b"}) {
		t.Errorf("Names() = %v, want [a b]", inv.Names())
	}
	if a, _ := inv.Get("a"); *a.Size != 3 {
		t.Errorf("a size = %d, want 3", *a.Size)
	}
}
