package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	// ErrOverwriteSource is returned when the output path would replace the source.
	ErrOverwriteSource = errors.New("output would overwrite the source file")

	// ErrSyntax is returned when a source is not well-formed YAML.
	ErrSyntax = errors.New("failed to parse soundboard")
)

const docKey = "_"

// DefaultMaxNodes bounds how many entries a source may expand to once YAML
// aliases and merge keys are resolved.
const DefaultMaxNodes = 10000

// extensionPrefix marks top-level keys the loader skips, so they can hold
// anchored menus for reuse.
const extensionPrefix = "x-"

var settingKeys = map[string]bool{"wait": true, "help_duration": true}

// leafKeys mark a mapping as a tagged message rather than a menu.
var leafKeys = map[string]bool{
	"text": true, "say": true, "say_team": true, "say_party": true,
	"fill": true, "lines": true, "channel": true,
}

// taggedLeaf is the decoded form of a tagged message.
type taggedLeaf struct {
	Text     string `mapstructure:"text"`
	Say      string `mapstructure:"say"`
	SayTeam  string `mapstructure:"say_team"`
	SayParty string `mapstructure:"say_party"`
	Fill     string `mapstructure:"fill"`
	Lines    int    `mapstructure:"lines"`
	Channel  string `mapstructure:"channel"`
}

// Load reads and parses the soundboard at path.
func Load(path string) (*domain.Soundboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read soundboard: %w", err)
	}
	sb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return sb, nil
}

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithMaxNodes overrides DefaultMaxNodes.
func WithMaxNodes(n int) ParseOption {
	return func(p *parser) {
		p.maxNodes = n
	}
}

// parser walks a YAML tree within a node budget. Aliases are expanded on
// every reference, so a small document can describe a huge tree.
type parser struct {
	ctx      context.Context
	nodes    int
	maxNodes int
}

// visit charges one node against the budget.
func (p *parser) visit(path domain.Path, n *yaml.Node) error {
	p.nodes++
	if p.nodes > p.maxNodes {
		return at(domain.NewCompileError(path, domain.ErrTooManyNodes, fmt.Sprintf("more than %d", p.maxNodes)), n)
	}
	if p.nodes%256 == 0 {
		return p.ctx.Err()
	}
	return nil
}

// Parse decodes a soundboard document.
func Parse(data []byte, opts ...ParseOption) (*domain.Soundboard, error) {
	return ParseContext(context.Background(), data, opts...)
}

// ParseContext is Parse with cancellation.
func ParseContext(ctx context.Context, data []byte, opts ...ParseOption) (*domain.Soundboard, error) {
	p := &parser{ctx: ctx, maxNodes: DefaultMaxNodes}
	for _, opt := range opts {
		opt(p)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, domain.NewCompileError(nil, domain.ErrNotObject, "empty document")
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, at(domain.NewCompileError(nil, domain.ErrNotObject, "top level must be a mapping"), root)
	}

	pairs, err := p.mappingPairs(root, nil)
	if err != nil {
		return nil, err
	}

	var unknown []string
	for _, e := range pairs {
		if settingKeys[e.key] || isExtension(e.key) {
			continue
		}
		if _, ok := domain.ParseDigit(e.key); ok {
			continue
		}
		unknown = append(unknown, e.key)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, domain.NewCompileError(nil, domain.ErrUnknownKey, "unused keys: "+strings.Join(unknown, ", "))
	}

	sb := domain.NewSoundboard()
	settings := make(map[string]any)
	var menu []pair
	for _, e := range pairs {
		if settingKeys[e.key] {
			var v any
			if err := e.value.Decode(&v); err != nil {
				return nil, at(domain.NewCompileError(nil, domain.ErrInvalidNode, err.Error()), e.keyNode)
			}
			settings[e.key] = v
			continue
		}
		if isExtension(e.key) {
			continue
		}
		menu = append(menu, e)
	}
	if err := decodeSettings(settings, &sb.Settings); err != nil {
		return nil, err
	}
	if err := p.fillBranch(sb.Root, menu, nil); err != nil {
		return nil, err
	}
	return sb, nil
}

// OutputPath returns where the program compiled from src is written: src
// with its extension replaced by .cfg.
func OutputPath(src string) (string, error) {
	out := strings.TrimSuffix(src, filepath.Ext(src)) + ".cfg"
	if filepath.Clean(out) == filepath.Clean(src) {
		return "", fmt.Errorf("%w: %s", ErrOverwriteSource, src)
	}
	return out, nil
}

func decodeSettings(raw map[string]any, out *domain.Settings) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.NewCompileError(nil, domain.ErrInvalidNode, "settings: "+err.Error())
	}
	if out.Wait < 0 {
		return domain.NewCompileError(nil, domain.ErrInvalidNode, fmt.Sprintf("wait must not be negative, got %d", out.Wait))
	}
	if out.HelpDuration <= 0 {
		out.HelpDuration = domain.DefaultHelpDuration
	}
	return nil
}

func (p *parser) fillBranch(b *domain.Branch, pairs []pair, path domain.Path) error {
	for _, e := range pairs {
		if e.key == docKey {
			v := resolve(e.value)
			if v.Kind != yaml.ScalarNode || v.Tag != "!!str" {
				return at(domain.NewCompileError(path, domain.ErrInvalidNode, "menu documentation must be a string"), e.keyNode)
			}
			b.Doc = v.Value
			continue
		}
		if e.key == "0" {
			return at(domain.NewCompileError(path.Child(domain.ResetDigit), domain.ErrReservedDigit, ""), e.keyNode)
		}
		d, ok := domain.ParseDigit(e.key)
		if !ok || !d.Valid() {
			return at(domain.NewCompileError(path, domain.ErrUnknownKey, fmt.Sprintf("%q is not a digit 1-9", e.key)), e.keyNode)
		}

		child := path.Child(d)
		node, err := p.parseNode(e.value, e.keyNode, child)
		if err != nil {
			return err
		}
		b.Children[d] = node
	}
	return nil
}

// parseNode decodes the value of a digit entry. Errors point at the line of key.
func (p *parser) parseNode(n, key *yaml.Node, path domain.Path) (domain.Node, error) {
	if err := p.visit(path, key); err != nil {
		return nil, err
	}
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag != "!!str" {
			return nil, at(domain.NewCompileError(path, domain.ErrInvalidNode, "got "+n.Tag), key)
		}
		return &domain.Leaf{Text: n.Value}, nil
	case yaml.MappingNode:
		pairs, err := p.mappingPairs(n, path)
		if err != nil {
			return nil, err
		}
		for _, e := range pairs {
			if leafKeys[e.key] {
				return parseTaggedLeaf(pairs, path, key)
			}
		}
		b := domain.NewBranch()
		if err := p.fillBranch(b, pairs, path); err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, at(domain.NewCompileError(path, domain.ErrInvalidNode, "got "+n.Tag), key)
	}
}

func parseTaggedLeaf(pairs []pair, path domain.Path, n *yaml.Node) (domain.Node, error) {
	raw := make(map[string]any, len(pairs))
	for _, p := range pairs {
		if !leafKeys[p.key] {
			return nil, at(domain.NewCompileError(path, domain.ErrUnknownKey, fmt.Sprintf("%q is not a message option", p.key)), p.keyNode)
		}
		var v any
		if err := p.value.Decode(&v); err != nil {
			return nil, at(domain.NewCompileError(path, domain.ErrInvalidNode, err.Error()), p.keyNode)
		}
		raw[p.key] = v
	}

	var tagged taggedLeaf
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &tagged,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, at(domain.NewCompileError(path, domain.ErrInvalidNode, err.Error()), n)
	}

	channel, err := domain.ParseChannel(tagged.Channel)
	if err != nil {
		return nil, at(domain.NewCompileError(path, domain.ErrInvalidNode, err.Error()), n)
	}

	type source struct {
		text    string
		channel domain.Channel
		set     bool
	}
	sources := []source{
		{tagged.Text, channel, tagged.Text != ""},
		{tagged.Say, domain.ChannelPublic, tagged.Say != ""},
		{tagged.SayTeam, domain.ChannelTeam, tagged.SayTeam != ""},
		{tagged.SayParty, domain.ChannelParty, tagged.SayParty != ""},
	}
	leaf := &domain.Leaf{Channel: channel}
	count := 0
	for _, s := range sources {
		if !s.set {
			continue
		}
		count++
		leaf.Text = s.text
		if tagged.Channel != "" && s.channel != channel {
			return nil, at(domain.NewCompileError(path, domain.ErrInvalidNode, "channel conflicts with the message key"), n)
		}
		leaf.Channel = s.channel
	}
	if tagged.Fill != "" {
		count++
		leaf.Text = tagged.Fill
	}
	if count != 1 {
		return nil, at(domain.NewCompileError(path, domain.ErrInvalidNode, "a message needs exactly one of text, say, say_team, say_party or fill"), n)
	}
	if tagged.Lines < 0 {
		return nil, at(domain.NewCompileError(path, domain.ErrInvalidNode, fmt.Sprintf("lines must be positive, got %d", tagged.Lines)), n)
	}

	if tagged.Fill != "" {
		leaf.FillLines = max(tagged.Lines, 1)
	} else {
		leaf.ExpectLines = tagged.Lines
	}
	return leaf, nil
}

// pair is one mapping entry after merge keys are expanded.
type pair struct {
	key     string
	keyNode *yaml.Node
	value   *yaml.Node
}

// mappingPairs lists the entries of n in document order. Entries pulled in
// through "<<" follow the explicit ones and never override them; among merged
// mappings the first one listed wins.
func (p *parser) mappingPairs(n *yaml.Node, path domain.Path) ([]pair, error) {
	var (
		explicit []pair
		merged   []*yaml.Node
		seen     = make(map[string]bool)
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if isMergeKey(k) {
			src := resolve(v)
			switch src.Kind {
			case yaml.MappingNode:
				merged = append(merged, src)
			case yaml.SequenceNode:
				for _, item := range src.Content {
					item = resolve(item)
					if item.Kind != yaml.MappingNode {
						return nil, at(domain.NewCompileError(path, domain.ErrNotObject, "merge sources must be mappings"), item)
					}
					merged = append(merged, item)
				}
			default:
				return nil, at(domain.NewCompileError(path, domain.ErrNotObject, "merge source must be a mapping"), k)
			}
			continue
		}
		if k.Kind != yaml.ScalarNode {
			return nil, at(domain.NewCompileError(path, domain.ErrUnknownKey, "keys must be scalars"), k)
		}
		if seen[k.Value] {
			return nil, at(domain.NewCompileError(path, domain.ErrDuplicateKey, fmt.Sprintf("%q", k.Value)), k)
		}
		seen[k.Value] = true
		explicit = append(explicit, pair{key: k.Value, keyNode: k, value: v})
	}

	for _, m := range merged {
		if err := p.visit(path, m); err != nil {
			return nil, err
		}
		inner, err := p.mappingPairs(m, path)
		if err != nil {
			return nil, err
		}
		for _, e := range inner {
			if seen[e.key] {
				continue
			}
			seen[e.key] = true
			explicit = append(explicit, e)
		}
	}
	return explicit, nil
}

func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.Value == "<<" &&
		k.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) == 0
}

// resolve follows alias nodes to their anchor.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// at records the source line of n on err.
func at(err *domain.CompileError, n *yaml.Node) *domain.CompileError {
	if n != nil {
		err.Line = n.Line
	}
	return err
}

func isExtension(key string) bool {
	return strings.HasPrefix(key, extensionPrefix)
}
