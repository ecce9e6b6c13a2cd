package validator

import (
	"context"
	"fmt"

	"github.com/aretw0/soundboard/internal/compiler"
	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
)

// Report summarises a soundboard that passed validation.
type Report struct {
	Leaves   int          `json:"leaves"`
	Branches int          `json:"branches"`
	Depth    int          `json:"depth"`
	Stats    domain.Stats `json:"stats"`
}

type item struct {
	branch *domain.Branch
	path   domain.Path
}

// Validate checks sb and reports every structural problem at once, unlike
// compilation which stops at the first. When the tree is structurally sound
// it is also compiled against limits, so capacity overflows are reported too.
func Validate(ctx context.Context, sb *domain.Soundboard, limits console.Limits) (*Report, error) {
	if sb == nil || sb.Root == nil {
		return nil, domain.NewCompileError(nil, domain.ErrNotObject, "no root branch")
	}

	var (
		problems []error
		report   Report
	)
	seg := compiler.Segmenter{Width: limits.LineWidth, PerSegment: limits.SendsPerAlias}
	if sb.Settings.Wait < 0 {
		problems = append(problems, fmt.Errorf("wait must not be negative, got %d", sb.Settings.Wait))
	}

	// Breadth-first, so problems are listed shallowest first.
	queue := []item{{branch: sb.Root}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		report.Depth = max(report.Depth, len(cur.path))

		for d := range cur.branch.Children {
			if d == domain.ResetDigit {
				problems = append(problems, domain.NewCompileError(cur.path.Child(d), domain.ErrReservedDigit, ""))
			} else if !d.Valid() {
				problems = append(problems, domain.NewCompileError(cur.path, domain.ErrUnknownKey, fmt.Sprintf("digit %d is out of range", d)))
			}
		}

		for _, d := range cur.branch.Assigned() {
			p := cur.path.Child(d)
			switch n := cur.branch.Children[d].(type) {
			case *domain.Branch:
				if n == nil {
					problems = append(problems, domain.NewCompileError(p, domain.ErrInvalidNode, ""))
					continue
				}
				report.Branches++
				queue = append(queue, item{branch: n, path: p})
			case *domain.Leaf:
				if n == nil {
					problems = append(problems, domain.NewCompileError(p, domain.ErrInvalidNode, ""))
					continue
				}
				report.Leaves++
				if err := checkLeaf(seg, n, p); err != nil {
					problems = append(problems, err)
				}
			default:
				problems = append(problems, domain.NewCompileError(p, domain.ErrInvalidNode, fmt.Sprintf("%T", n)))
			}
		}
	}

	if len(problems) > 0 {
		sortProblems(problems)
		return nil, &domain.AggregateError{Errors: problems}
	}

	res, err := compiler.New(compiler.WithLimits(limits)).Compile(ctx, sb)
	if err != nil {
		return nil, &domain.AggregateError{Errors: []error{err}}
	}
	report.Stats = res.Stats
	return &report, nil
}

func checkLeaf(seg compiler.Segmenter, l *domain.Leaf, p domain.Path) error {
	if l.ExpectLines <= 0 {
		return nil
	}
	text := compiler.Sanitize(l.Text)
	if l.FillLines > 0 {
		text = seg.Fill(text, l.FillLines)
	}
	if got := len(seg.Wrap(text)); got != l.ExpectLines {
		return domain.NewCompileError(p, domain.ErrLineCount, fmt.Sprintf("expected %d lines, got %d", l.ExpectLines, got))
	}
	return nil
}
