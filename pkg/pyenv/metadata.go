package pyenv

import (
	"bufio"
	"io"
	"net/mail"
	"net/textproto"
	"strings"
)

// Metadata holds the header fields of a METADATA or PKG-INFO file.
// Keys are in canonical MIME form ("Requires-Dist"); values keep file order.
type Metadata map[string][]string

// Get returns the first value of key, or "" if absent.
func (m Metadata) Get(key string) string {
	if v := m[textproto.CanonicalMIMEHeaderKey(key)]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// GetAll returns every value of key. The boolean is false when the field
// does not appear at all, which is distinct from appearing with no values.
func (m Metadata) GetAll(key string) ([]string, bool) {
	v, ok := m[textproto.CanonicalMIMEHeaderKey(key)]
	return v, ok
}

// ParseMetadata reads the header block of a core metadata file.
// The message body (long description) is ignored.
func ParseMetadata(r io.Reader) (Metadata, error) {
	msg, err := mail.ReadMessage(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return Metadata(msg.Header), nil
}

// ParseEggRequires converts an egg-info requires.txt into Requires-Dist
// style strings. Section headers select an extra, a marker, or both:
//
//	[socks]            -> "PySocks ; extra == \"socks\""
//	[:python_version<"3.8"]  -> "importlib-metadata ; python_version<\"3.8\""
//	[test:sys_platform=="win32"] -> "... ; (sys_platform==\"win32\") and extra == \"test\""
func ParseEggRequires(r io.Reader) ([]string, error) {
	var (
		reqs    []string
		section string
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		reqs = append(reqs, withSectionMarker(line, section))
	}
	return reqs, scanner.Err()
}

func withSectionMarker(req, section string) string {
	extra, marker, _ := strings.Cut(section, ":")
	extra = strings.TrimSpace(extra)
	marker = strings.TrimSpace(marker)

	if extra != "" {
		if marker != "" {
			marker = "(" + marker + `) and extra == "` + extra + `"`
		} else {
			marker = `extra == "` + extra + `"`
		}
	}
	if marker == "" {
		return req
	}
	return req + " ; " + marker
}
