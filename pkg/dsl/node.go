package dsl

import (
	"fmt"

	"github.com/aretw0/soundboard/pkg/domain"
)

// MenuBuilder provides a fluent API for configuring a menu.
type MenuBuilder struct {
	branch  *domain.Branch
	path    domain.Path
	parent  *MenuBuilder
	builder *Builder
}

// Doc sets the help line shown for this menu instead of its entry count.
func (m *MenuBuilder) Doc(text string) *MenuBuilder {
	m.branch.Doc = text
	return m
}

// Say assigns a public chat message to d.
func (m *MenuBuilder) Say(d domain.Digit, text string) *MenuBuilder {
	m.Message(d, text)
	return m
}

// Team assigns a team chat message to d.
func (m *MenuBuilder) Team(d domain.Digit, text string) *MenuBuilder {
	m.Message(d, text).Channel(domain.ChannelTeam)
	return m
}

// Party assigns a party chat message to d.
func (m *MenuBuilder) Party(d domain.Digit, text string) *MenuBuilder {
	m.Message(d, text).Channel(domain.ChannelParty)
	return m
}

// Message assigns a message to d and returns its builder for further options.
func (m *MenuBuilder) Message(d domain.Digit, text string) *LeafBuilder {
	leaf := &domain.Leaf{Text: text}
	if m.claim(d) {
		m.branch.Children[d] = leaf
	}
	return &LeafBuilder{leaf: leaf, menu: m}
}

// Menu returns the builder of the submenu at d, creating it if needed.
func (m *MenuBuilder) Menu(d domain.Digit) *MenuBuilder {
	if existing, ok := m.branch.Children[d].(*domain.Branch); ok {
		return &MenuBuilder{branch: existing, path: m.path.Child(d), parent: m, builder: m.builder}
	}
	sub := &MenuBuilder{branch: domain.NewBranch(), path: m.path.Child(d), parent: m, builder: m.builder}
	if m.claim(d) {
		m.branch.Children[d] = sub.branch
	}
	return sub
}

// Up returns the enclosing menu. The root is its own parent.
func (m *MenuBuilder) Up() *MenuBuilder {
	if m.parent == nil {
		return m
	}
	return m.parent
}

// claim checks that d can be assigned, recording a build error otherwise.
func (m *MenuBuilder) claim(d domain.Digit) bool {
	p := m.path.Child(d)
	switch {
	case d == domain.ResetDigit:
		m.builder.fail(domain.NewCompileError(p, domain.ErrReservedDigit, ""))
		return false
	case !d.Valid():
		m.builder.fail(domain.NewCompileError(m.path, domain.ErrUnknownKey, fmt.Sprintf("digit %d is out of range", d)))
		return false
	}
	if _, taken := m.branch.Children[d]; taken {
		m.builder.fail(domain.NewCompileError(p, domain.ErrDuplicateKey, ""))
		return false
	}
	return true
}

// LeafBuilder configures a single message.
type LeafBuilder struct {
	leaf *domain.Leaf
	menu *MenuBuilder
}

// Channel selects the chat the message is sent to.
func (l *LeafBuilder) Channel(c domain.Channel) *LeafBuilder {
	l.leaf.Channel = c
	return l
}

// Lines asserts that the message wraps to exactly n chat lines.
func (l *LeafBuilder) Lines(n int) *LeafBuilder {
	l.leaf.ExpectLines = n
	return l
}

// Fill repeats the text as many times as fits in n chat lines.
func (l *LeafBuilder) Fill(n int) *LeafBuilder {
	l.leaf.FillLines = n
	return l
}

// Menu returns the menu the message belongs to.
func (l *LeafBuilder) Menu() *MenuBuilder {
	return l.menu
}
