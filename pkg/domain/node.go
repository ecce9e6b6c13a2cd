package domain

import "fmt"

// Channel selects the chat a leaf message is sent to.
type Channel int

const (
	ChannelPublic Channel = iota
	ChannelTeam
	ChannelParty
)

// Command returns the console command that sends a line to the channel.
func (c Channel) Command() string {
	switch c {
	case ChannelTeam:
		return "say_team"
	case ChannelParty:
		return "say_party"
	default:
		return "say"
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelTeam:
		return "team"
	case ChannelParty:
		return "party"
	default:
		return "public"
	}
}

// ParseChannel accepts the names used in soundboard files.
func ParseChannel(name string) (Channel, error) {
	switch name {
	case "", "public", "say", "all":
		return ChannelPublic, nil
	case "team", "say_team":
		return ChannelTeam, nil
	case "party", "say_party":
		return ChannelParty, nil
	}
	return ChannelPublic, fmt.Errorf("unknown channel %q", name)
}

// Node is a point in the menu tree: either a *Leaf or a *Branch.
type Node interface {
	isNode()
}

// Leaf is a message sent to chat when its digit sequence is completed.
type Leaf struct {
	// Text may span several paragraphs (hard breaks) and any length.
	Text    string
	Channel Channel

	// ExpectLines, when positive, asserts the number of chat lines the text wraps to.
	ExpectLines int

	// FillLines, when positive, repeats Text as many times as fits in that many lines.
	FillLines int
}

// Branch is a sub-menu. Children keys must be digits 1-9.
type Branch struct {
	Children map[Digit]Node

	// Doc overrides the generated "<n> lines" help summary.
	Doc string
}

func (*Leaf) isNode()   {}
func (*Branch) isNode() {}

// NewBranch returns an empty branch ready to receive children.
func NewBranch() *Branch {
	return &Branch{Children: make(map[Digit]Node)}
}

// Assigned returns the digits of b that hold a node, in ascending order.
func (b *Branch) Assigned() []Digit {
	out := make([]Digit, 0, len(b.Children))
	for _, d := range MenuDigits {
		if _, ok := b.Children[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Settings are the tunables a soundboard file may set at its top level.
// Start from DefaultSettings: the zero value means no wait between lines.
type Settings struct {
	// Wait is the delay, in frames, between consecutive chat lines of one message.
	// Zero is honored as given.
	Wait int `mapstructure:"wait"`
	// HelpDuration is how many seconds help text stays on screen. Zero falls
	// back to DefaultHelpDuration.
	HelpDuration int `mapstructure:"help_duration"`
}

const (
	DefaultWait         = 100
	DefaultHelpDuration = 4
)

// DefaultSettings returns the values used when a file does not override them.
func DefaultSettings() Settings {
	return Settings{Wait: DefaultWait, HelpDuration: DefaultHelpDuration}
}

// Soundboard is a loaded menu tree. It is not modified by compilation.
// Build one with NewSoundboard to get default settings; a literal
// Soundboard carries a zero Wait.
type Soundboard struct {
	Root     *Branch
	Settings Settings
}

// NewSoundboard creates an empty soundboard with default settings.
func NewSoundboard() *Soundboard {
	return &Soundboard{Root: NewBranch(), Settings: DefaultSettings()}
}
