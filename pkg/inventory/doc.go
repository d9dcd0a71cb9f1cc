// Package inventory measures installed Python packages and collects their
// declared dependencies.
//
// For every distribution of a [pyenv.Environment], [Collector.Collect]
// records a [Package] with:
//
//   - Size: the summed byte size of every file below
//     <location>/<SafeName(name)>, or nil when it cannot be measured
//   - Dependencies: the leading token of every Requires-Dist value
//
// # Failure policy
//
// Per-package failures never abort a run. A package whose directory is
// missing or unreadable gets a nil Size; a package whose metadata lookup
// fails gets an empty dependency list. Both are logged and the collector
// moves on.
//
// # Known limitation
//
// Only packages installed as a directory named after the project are
// sized. Single-file modules (six.py), namespace packages, and projects
// whose import name differs from the distribution name (PyYAML installs
// "yaml") report nil and are later left out of the graph.
package inventory
