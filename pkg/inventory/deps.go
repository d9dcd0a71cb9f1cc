package inventory

import "strings"

// DependencyName extracts the dependency name from a Requires-Dist value
// by keeping everything before the first space. Constraints, markers and
// extras are dropped:
//
//	"requests (>=2.0)"        -> "requests"
//	"PySocks ; extra=='socks'" -> "PySocks"
//	"idna>=2.5"               -> "idna>=2.5"
func DependencyName(req string) string {
	name, _, _ := strings.Cut(req, " ")
	return name
}

// ListDependencies looks name up in env and returns its direct dependency
// names. declared is false when the distribution has no dependency field,
// in which case deps is an empty, non-nil slice.
func ListDependencies(env Lookup, name string) (deps []string, declared bool, err error) {
	d, err := env.Get(name)
	if err != nil {
		return nil, false, err
	}

	reqs, ok := d.Requires()
	if !ok {
		return []string{}, false, nil
	}

	deps = make([]string, 0, len(reqs))
	for _, r := range reqs {
		deps = append(deps, DependencyName(r))
	}
	return deps, true, nil
}
