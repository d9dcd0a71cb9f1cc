package inventory

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depsize/pkg/pyenv"
)

// Lookup finds a distribution by name.
type Lookup interface {
	Get(name string) (*pyenv.Distribution, error)
}

// Environment enumerates distributions and looks them up by name.
// *pyenv.Environment implements it.
type Environment interface {
	Lookup
	Distributions() []*pyenv.Distribution
}

// Package is the enriched record of one installed package.
type Package struct {
	Name         string
	Version      string
	Size         *int64   // bytes; nil when unmeasurable
	Dependencies []string // direct dependency names; never nil after Collect
}

// Measured reports whether the package size is known.
func (p Package) Measured() bool { return p.Size != nil }

// Bytes returns a pointer to n, for building Package values.
func Bytes(n int64) *int64 { return &n }

// Inventory maps package names to their records, remembering the order in
// which names were first recorded.
type Inventory struct {
	packages map[string]Package
	order    []string
}

// New creates an inventory holding pkgs, recorded in order.
func New(pkgs ...Package) *Inventory {
	inv := &Inventory{packages: make(map[string]Package, len(pkgs))}
	for _, p := range pkgs {
		inv.Set(p)
	}
	return inv
}

// Set records p under p.Name. A later record with the same name replaces
// the earlier one but keeps its position.
func (inv *Inventory) Set(p Package) {
	if _, exists := inv.packages[p.Name]; !exists {
		inv.order = append(inv.order, p.Name)
	}
	inv.packages[p.Name] = p
}

// Get returns the package recorded under name.
func (inv *Inventory) Get(name string) (Package, bool) {
	p, ok := inv.packages[name]
	return p, ok
}

// Has reports whether name is recorded.
func (inv *Inventory) Has(name string) bool {
	_, ok := inv.packages[name]
	return ok
}

// Names returns package names in recording order.
func (inv *Inventory) Names() []string { return inv.order }

// Packages returns every package in recording order.
func (inv *Inventory) Packages() []Package {
	out := make([]Package, 0, len(inv.order))
	for _, name := range inv.order {
		out = append(out, inv.packages[name])
	}
	return out
}

// Len returns the number of packages.
func (inv *Inventory) Len() int { return len(inv.order) }

// Collector enriches every distribution of an environment.
type Collector struct {
	Env    Environment
	Logger *log.Logger
}

// NewCollector creates a collector for env. A nil logger uses log.Default().
func NewCollector(env Environment, logger *log.Logger) *Collector {
	if logger == nil {
		logger = log.Default()
	}
	return &Collector{Env: env, Logger: logger}
}

// Collect measures and resolves every distribution in enumeration order.
// Per-package failures degrade that package only; the returned error is
// non-nil only when ctx is cancelled.
func (c *Collector) Collect(ctx context.Context) (*Inventory, error) {
	inv := New()
	for _, d := range c.Env.Distributions() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := d.Name
		size := c.Size(name)
		deps := c.Dependencies(name)
		if deps == nil {
			deps = []string{}
		}

		inv.Set(Package{
			Name:         name,
			Version:      d.Version,
			Size:         size,
			Dependencies: deps,
		})
	}
	return inv, nil
}

// Size returns the package size, or nil after logging why it could not be
// measured.
func (c *Collector) Size(name string) *int64 {
	n, err := PackageSize(c.Env, name)
	if err != nil {
		c.Logger.Warn("size unavailable", "package", name, "err", err)
		return nil
	}
	c.Logger.Debug("measured package", "package", name, "bytes", n)
	return &n
}

// Dependencies returns the dependency names of a package. It returns nil
// when the lookup fails and an empty slice when none are declared.
func (c *Collector) Dependencies(name string) []string {
	deps, declared, err := ListDependencies(c.Env, name)
	if err != nil {
		c.Logger.Warn("dependencies unavailable", "package", name, "err", err)
		return nil
	}
	if !declared {
		c.Logger.Infof("Package '%s' has no dependencies.", name)
	}
	return deps
}
