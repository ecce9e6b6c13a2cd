package dsl

import (
	"errors"

	"github.com/aretw0/soundboard/pkg/domain"
)

// Builder manages the soundboard construction.
type Builder struct {
	settings domain.Settings
	root     *MenuBuilder
	errs     []error
}

// New creates a new soundboard builder with default settings.
func New() *Builder {
	b := &Builder{settings: domain.DefaultSettings()}
	b.root = &MenuBuilder{branch: domain.NewBranch(), builder: b}
	return b
}

// Wait sets the delay, in frames, between the lines of a message.
func (b *Builder) Wait(frames int) *Builder {
	b.settings.Wait = frames
	return b
}

// HelpDuration sets how many seconds help text stays on screen.
func (b *Builder) HelpDuration(seconds int) *Builder {
	b.settings.HelpDuration = seconds
	return b
}

// Root returns the top-level menu.
func (b *Builder) Root() *MenuBuilder {
	return b.root
}

// Say assigns a public message to a top-level digit.
func (b *Builder) Say(d domain.Digit, text string) *Builder {
	b.root.Say(d, text)
	return b
}

// Menu returns the builder of the top-level submenu at d, creating it if needed.
func (b *Builder) Menu(d domain.Digit) *MenuBuilder {
	return b.root.Menu(d)
}

// Build returns the soundboard, or every problem recorded while building it.
func (b *Builder) Build() (*domain.Soundboard, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	return &domain.Soundboard{Root: b.root.branch, Settings: b.settings}, nil
}

func (b *Builder) fail(err error) {
	b.errs = append(b.errs, err)
}
