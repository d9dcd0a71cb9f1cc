package pyenv

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
)

// Metadata directory suffixes and the files inside them.
const (
	distInfoSuffix = ".dist-info"
	eggInfoSuffix  = ".egg-info"

	distInfoMetadata = "METADATA"
	eggInfoMetadata  = "PKG-INFO"
	eggInfoRequires  = "requires.txt"
)

// skipNames lists distributions that ship with the interpreter itself and
// are never reported as installed packages.
var skipNames = map[string]bool{
	"python":   true,
	"wsgiref":  true,
	"argparse": true,
}

// Kind identifies the on-disk metadata format of a distribution.
type Kind int

const (
	// KindDistInfo is a wheel-style *.dist-info directory.
	KindDistInfo Kind = iota
	// KindEggInfo is a setuptools *.egg-info directory or file.
	KindEggInfo
)

func (k Kind) String() string {
	if k == KindEggInfo {
		return "egg-info"
	}
	return "dist-info"
}

// Distribution is one installed package as recorded in a site directory.
type Distribution struct {
	Name        string   // declared project name (metadata "Name")
	ProjectName string   // project name encoded in the metadata entry's file name
	Version     string   // declared version (metadata "Version")
	Location    string   // site directory containing the metadata entry
	MetadataDir string   // path of the *.dist-info / *.egg-info entry
	Kind        Kind     // metadata format
	Metadata    Metadata // parsed header fields

	requires    []string
	hasRequires bool
}

// Requires returns the declared dependency specifications.
// For dist-info these are the Requires-Dist values; for egg-info they are
// the converted requires.txt lines. ok is false when the distribution
// declares no dependency field at all.
func (d *Distribution) Requires() (reqs []string, ok bool) {
	return d.requires, d.hasRequires
}

// Environment is the set of distributions visible from a list of site
// directories. It is read once by [Open] and never modified afterwards.
type Environment struct {
	dirs   []string
	dists  []*Distribution
	byName map[string]*Distribution
}

// Open scans dirs in order and indexes every distribution found.
//
// Entries within a directory are visited in lexical order. When the same
// canonical name appears more than once, the first one wins, which mirrors
// how the interpreter resolves imports along sys.path. Directories that do
// not exist are skipped; any other read error is returned. Entries with
// unreadable or nameless metadata are skipped and reported at debug level.
func Open(dirs []string, logger *log.Logger) (*Environment, error) {
	if logger == nil {
		logger = log.Default()
	}
	env := &Environment{
		dirs:   dirs,
		byName: make(map[string]*Distribution),
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("skipping missing site directory", "dir", dir)
				continue
			}
			return nil, deperrors.Wrap(deperrors.ErrCodeFileNotFound, err, "read site directory %s", dir)
		}

		for _, entry := range entries {
			dist, err := loadEntry(dir, entry)
			if err != nil {
				logger.Debug("skipping distribution", "path", filepath.Join(dir, entry.Name()), "err", err)
				continue
			}
			if dist == nil {
				continue
			}
			env.add(dist)
		}
	}

	return env, nil
}

func (e *Environment) add(d *Distribution) {
	key := CanonicalName(d.Name)
	if skipNames[key] {
		return
	}
	if _, seen := e.byName[key]; seen {
		return
	}
	e.byName[key] = d
	e.dists = append(e.dists, d)
}

// Dirs returns the site directories the environment was opened with.
func (e *Environment) Dirs() []string { return e.dirs }

// Distributions returns every distribution in enumeration order.
func (e *Environment) Distributions() []*Distribution { return e.dists }

// Len returns the number of distributions.
func (e *Environment) Len() int { return len(e.dists) }

// Get looks up a distribution by name using PEP 503 canonicalization.
// It returns an error with code PACKAGE_NOT_FOUND if there is none.
func (e *Environment) Get(name string) (*Distribution, error) {
	if d, ok := e.byName[CanonicalName(name)]; ok {
		return d, nil
	}
	return nil, deperrors.New(deperrors.ErrCodePackageNotFound, "Package '%s' not found.", name)
}

// loadEntry parses a single site directory entry. It returns nil, nil for
// entries that are not distribution metadata.
func loadEntry(dir string, entry fs.DirEntry) (*Distribution, error) {
	name := entry.Name()
	path := filepath.Join(dir, name)

	switch {
	case strings.HasSuffix(name, distInfoSuffix) && entry.IsDir():
		return loadDistInfo(dir, path)
	case strings.HasSuffix(name, eggInfoSuffix) && entry.IsDir():
		return loadEggInfo(dir, path, filepath.Join(path, eggInfoMetadata))
	case strings.HasSuffix(name, eggInfoSuffix):
		// Legacy distutils installs write PKG-INFO as a plain file.
		return loadEggInfo(dir, path, path)
	default:
		return nil, nil
	}
}

func loadDistInfo(location, path string) (*Distribution, error) {
	md, err := readMetadata(filepath.Join(path, distInfoMetadata))
	if err != nil {
		return nil, err
	}
	d, err := newDistribution(location, path, KindDistInfo, md)
	if err != nil {
		return nil, err
	}
	d.requires, d.hasRequires = md.GetAll("Requires-Dist")
	return d, nil
}

func loadEggInfo(location, path, metadataFile string) (*Distribution, error) {
	md, err := readMetadata(metadataFile)
	if err != nil {
		return nil, err
	}
	d, err := newDistribution(location, path, KindEggInfo, md)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(path, eggInfoRequires))
	if err != nil {
		// No requires.txt (or a single-file egg-info) declares nothing.
		return d, nil
	}
	defer f.Close()

	reqs, err := ParseEggRequires(f)
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeMetadata, err, "parse %s", f.Name())
	}
	d.requires, d.hasRequires = reqs, true
	return d, nil
}

func newDistribution(location, path string, kind Kind, md Metadata) (*Distribution, error) {
	name := md.Get("Name")
	if name == "" {
		return nil, deperrors.New(deperrors.ErrCodeMetadata, "%s: missing Name field", path)
	}
	return &Distribution{
		Name:        name,
		ProjectName: entryProject(filepath.Base(path), name),
		Version:     md.Get("Version"),
		Location:    location,
		MetadataDir: path,
		Kind:        kind,
		Metadata:    md,
	}, nil
}

// entryProject returns the project part of a metadata entry name such as
// "pygments-2.19.2.dist-info": the text before the first "-", with the
// suffix removed. Installers often spell it differently from the
// metadata Name (lowercase, "_" for "-"). fallback is returned when the
// entry name carries no project.
func entryProject(entry, fallback string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(entry, distInfoSuffix), eggInfoSuffix)
	project, _, _ := strings.Cut(base, "-")
	if project == "" {
		return fallback
	}
	return project
}

func readMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	md, err := ParseMetadata(f)
	if err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeMetadata, err, "parse %s", path)
	}
	return md, nil
}
