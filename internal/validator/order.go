package validator

import (
	"errors"
	"slices"

	"github.com/aretw0/soundboard/pkg/domain"
)

// sortProblems orders errors by path depth, then path, keeping errors
// without a path first. The tree's maps give no stable order of their own.
func sortProblems(problems []error) {
	key := func(err error) (int, string) {
		var ce *domain.CompileError
		if !errors.As(err, &ce) {
			return -1, ""
		}
		return len(ce.Path), ce.Path.Dotted()
	}
	slices.SortStableFunc(problems, func(a, b error) int {
		da, pa := key(a)
		db, pb := key(b)
		if da != db {
			return da - db
		}
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		}
		return 0
	})
}
