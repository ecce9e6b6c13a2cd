package file

import (
	"fmt"

	"github.com/aretw0/soundboard/pkg/console"
)

// WriteProgram saves a compiled program to path.
func WriteProgram(path string, program *console.Program) error {
	if program == nil {
		return fmt.Errorf("no program to write")
	}
	if err := writeAtomic(path, []byte(program.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
