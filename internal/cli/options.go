package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSourceNames are tried, in order, when no source file is given.
var DefaultSourceNames = []string{"soundboard.yaml", "soundboard.yml", "soundboard.json"}

// Options contains the configuration shared by the compile and watch commands.
type Options struct {
	Source    string
	Out       string // empty writes next to the source
	Debug     bool
	LogFormat string
	Quiet     bool
}

// ResolveSource returns arg when set, otherwise the first default source
// name found in dir.
func ResolveSource(dir, arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	for _, name := range DefaultSourceNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no soundboard source given and none of %v found in %s", DefaultSourceNames, dir)
}
