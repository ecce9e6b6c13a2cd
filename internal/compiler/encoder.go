package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
)

// encoder serialises the menu tree as a transition table.
//
// The console keeps no state besides key bindings and alias bodies, so the
// current menu position is whatever the nine numpad keys are bound to. Each
// path owns its enter/exit aliases; releasing a branch key rebinds the keys
// to that branch's children, and every leaf or cancel rebinds them to the
// root set through SSBreset.
type encoder struct {
	ctx     context.Context
	build   *console.Builder
	seg     Segmenter
	wait    int
	program *console.Program
	stats   domain.Stats
	hooks   domain.CompileHooks
	logger  *slog.Logger
}

func (e *encoder) alias(path domain.Path, token, body string) error {
	a, err := e.build.Alias(token, body)
	if err != nil {
		return domain.NewCompileError(path, err, "")
	}
	e.program.Add(a)
	e.stats.Aliases++
	return nil
}

// bindAll rebinds the nine menu keys to the enter aliases of path's children.
func (e *encoder) bindAll(path domain.Path) (string, error) {
	var sb strings.Builder
	for _, d := range domain.MenuDigits {
		cmd, err := e.build.Bind(d, EnterName(path.Child(d)))
		if err != nil {
			return "", domain.NewCompileError(path.Child(d), err, "")
		}
		sb.WriteString(cmd)
		e.stats.Binds++
	}
	return sb.String(), nil
}

func (e *encoder) encoded(path domain.Path, kind domain.NodeKind, segments int) {
	e.logger.Debug("Node encoded", "path", path.String(), "kind", kind, "segments", segments)
	if e.hooks.OnNodeEncoded != nil {
		e.hooks.OnNodeEncoded(e.ctx, &domain.NodeEvent{
			Timestamp: time.Now(),
			Path:      path.String(),
			Kind:      kind,
			Segments:  segments,
		})
	}
}

// branch emits the aliases of every child of b, then b's own enter and exit.
func (e *encoder) branch(b *domain.Branch, path domain.Path) error {
	if err := e.ctx.Err(); err != nil {
		return err
	}
	if _, ok := b.Children[domain.ResetDigit]; ok {
		return domain.NewCompileError(path.Child(domain.ResetDigit), domain.ErrReservedDigit, "")
	}
	if len(b.Assigned()) != len(b.Children) {
		return domain.NewCompileError(path, domain.ErrUnknownKey, "menu keys must be digits 1-9")
	}

	var help strings.Builder
	for _, d := range domain.MenuDigits {
		p := path.Child(d)
		child, ok := b.Children[d]
		if !ok {
			if err := e.unused(p); err != nil {
				return err
			}
			continue
		}

		switch n := child.(type) {
		case *domain.Leaf:
			if n == nil {
				return domain.NewCompileError(p, domain.ErrInvalidNode, "")
			}
			if err := e.leaf(n, p); err != nil {
				return err
			}
		case *domain.Branch:
			if n == nil {
				return domain.NewCompileError(p, domain.ErrInvalidNode, "")
			}
			summary := n.Doc
			if summary == "" {
				summary = fmt.Sprintf("%d lines", len(n.Assigned()))
			}
			if err := e.alias(p, HelpName(p), e.build.Echo(fmt.Sprintf("[%s] %s", p, Sanitize(summary)))); err != nil {
				return err
			}
			if err := e.branch(n, p); err != nil {
				return err
			}
		default:
			return domain.NewCompileError(p, domain.ErrInvalidNode, fmt.Sprintf("%T", child))
		}
		help.WriteString(HelpName(p) + ";")
	}
	help.WriteString(endlAlias + ";")

	if err := e.alias(path, EnterName(path), coutAlias); err != nil {
		return err
	}

	var exit string
	if path.IsRoot() {
		// SSBreset already binds the root set.
		exit = resetAlias + ";"
	} else {
		binds, err := e.bindAll(path)
		if err != nil {
			return err
		}
		exit = binds
		e.stats.Branches++
	}
	if err := e.alias(path, ExitName(path), exit+help.String()); err != nil {
		return err
	}
	e.encoded(path, domain.KindBranch, 0)
	return nil
}

// unused emits the handlers of a digit with nothing assigned: it cancels back to the root.
func (e *encoder) unused(p domain.Path) error {
	if err := e.alias(p, EnterName(p), coutAlias+";"); err != nil {
		return err
	}
	notFound := resetAlias + ";" + e.build.Echo(fmt.Sprintf("[%s] unused", p)) + ";" + endlAlias + ";"
	if err := e.alias(p, ExitName(p), notFound); err != nil {
		return err
	}
	e.stats.Unused++
	e.encoded(p, domain.KindUnused, 0)
	return nil
}

// leaf emits the message of l. Pages beyond the first are chained: each
// segment alias ends by invoking the next one.
func (e *encoder) leaf(l *domain.Leaf, p domain.Path) error {
	if err := e.ctx.Err(); err != nil {
		return err
	}
	text := Sanitize(l.Text)
	if l.FillLines > 0 {
		text = e.seg.Fill(text, l.FillLines)
	}
	lines := e.seg.Wrap(text)
	if l.ExpectLines > 0 && len(lines) != l.ExpectLines {
		return domain.NewCompileError(p, domain.ErrLineCount, fmt.Sprintf("expected %d lines, got %d", l.ExpectLines, len(lines)))
	}

	segments := e.seg.Paginate(lines)
	say := l.Channel.Command()
	chained := len(segments) > 1

	for _, s := range segments {
		var body strings.Builder
		if s.Index == 0 {
			body.WriteString(resetAlias + ";")
		}
		for j, line := range s.Sends {
			if s.Index > 0 || j > 0 {
				body.WriteString(console.Wait(e.wait))
			}
			body.WriteString(console.Say(say, line))
		}
		e.stats.Sends += len(s.Sends)

		if !chained {
			if err := e.alias(p, EnterName(p), body.String()); err != nil {
				return err
			}
			continue
		}
		if s.Index < len(segments)-1 {
			body.WriteString(SegmentName(p, s.Index+1))
		}
		if err := e.alias(p, SegmentName(p, s.Index), body.String()); err != nil {
			return err
		}
	}
	if chained {
		if err := e.alias(p, EnterName(p), SegmentName(p, 0)); err != nil {
			return err
		}
	}
	e.stats.Segments += len(segments)

	if err := e.alias(p, ExitName(p), ""); err != nil {
		return err
	}

	label := "[" + p.String() + "]"
	if len(lines) > 1 {
		label += fmt.Sprintf(" {%d lines}", len(lines))
	}
	if len(lines) > 0 {
		label += " " + lines[0]
	}
	if err := e.alias(p, HelpName(p), e.build.Echo(label)); err != nil {
		return err
	}

	e.stats.Leaves++
	e.encoded(p, domain.KindLeaf, len(segments))
	return nil
}
