// Package pyenv reads the installed-distribution database of a Python
// environment straight from disk.
//
// A Python environment is a list of site directories (the interpreter's
// sys.path). Every installed distribution leaves a metadata directory in one
// of them:
//
//	site-packages/
//	    requests/                      <- the package itself
//	    requests-2.32.3.dist-info/
//	        METADATA                   <- Name, Version, Requires-Dist, ...
//	    six-1.16.0.egg-info/
//	        PKG-INFO
//	        requires.txt
//
// [Discover] asks an interpreter for its sys.path, [Open] scans those
// directories, and [Environment.Get] looks distributions up by name using
// PEP 503 canonicalization, so "Typing_Extensions" finds
// "typing-extensions".
//
// Metadata files use the RFC 822 header format and are parsed with
// net/mail; multi-valued fields such as Requires-Dist keep every value in
// file order.
package pyenv
