package console

import (
	"io"
	"strings"
)

// Program is an ordered list of directives, rendered one per line.
type Program struct {
	directives []Directive
	aliases    map[string]int
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{aliases: make(map[string]int)}
}

// Add appends directives in order.
func (p *Program) Add(ds ...Directive) {
	for _, d := range ds {
		if a, ok := d.(Alias); ok {
			p.aliases[a.Token] = len(p.directives)
		}
		p.directives = append(p.directives, d)
	}
}

// Directives returns the directives in emission order.
func (p *Program) Directives() []Directive {
	out := make([]Directive, len(p.directives))
	copy(out, p.directives)
	return out
}

// Len returns the number of directives.
func (p *Program) Len() int {
	return len(p.directives)
}

// Lookup returns the last definition of an alias.
func (p *Program) Lookup(token string) (Alias, bool) {
	i, ok := p.aliases[token]
	if !ok {
		return Alias{}, false
	}
	return p.directives[i].(Alias), true
}

// WriteTo writes the program, each line newline-terminated.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, d := range p.directives {
		n, err := io.WriteString(w, d.Line()+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (p *Program) String() string {
	var sb strings.Builder
	_, _ = p.WriteTo(&sb)
	return sb.String()
}
