package pyenv

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
)

// DefaultPython is the interpreter used by [Discover] when none is given.
const DefaultPython = "python3"

const sysPathScript = "import json, sys; print(json.dumps(sys.path))"

// Discover runs the interpreter and returns its sys.path entries that are
// existing directories, in sys.path order. Empty entries (the current
// directory placeholder), zip archives and missing paths are dropped.
func Discover(ctx context.Context, python string) ([]string, error) {
	if python == "" {
		python = DefaultPython
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, python, "-c", sysPathScript)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, deperrors.Wrap(deperrors.ErrCodeInterpreter, err, "run %s: %s", python, msg)
		}
		return nil, deperrors.Wrap(deperrors.ErrCodeInterpreter, err, "run %s", python)
	}

	var entries []string
	if err := json.Unmarshal(bytes.TrimSpace(out), &entries); err != nil {
		return nil, deperrors.Wrap(deperrors.ErrCodeInterpreter, err, "decode sys.path from %s", python)
	}

	return existingDirs(entries), nil
}

func existingDirs(entries []string) []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, p := range entries {
		if p == "" || seen[p] {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			seen[p] = true
			dirs = append(dirs, p)
		}
	}
	return dirs
}
