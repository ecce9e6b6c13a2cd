package file_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/soundboard/internal/compiler"
	"github.com/aretw0/soundboard/pkg/adapters/file"
	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileError(t *testing.T, err error) *domain.CompileError {
	t.Helper()
	require.Error(t, err)
	var ce *domain.CompileError
	require.True(t, errors.As(err, &ce), "expected a CompileError, got %v", err)
	return ce
}

func TestParse_Tree(t *testing.T) {
	src := `
wait: 576
help_duration: 6
1:
  _: Greetings
  1: "11"
  2: Hello there
  3:
    1: deep
5: gg
`
	sb, err := file.Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, 576, sb.Settings.Wait)
	assert.Equal(t, 6, sb.Settings.HelpDuration)
	assert.Equal(t, []domain.Digit{1, 5}, sb.Root.Assigned())

	menu, ok := sb.Root.Children[1].(*domain.Branch)
	require.True(t, ok)
	assert.Equal(t, "Greetings", menu.Doc)
	assert.Equal(t, &domain.Leaf{Text: "11"}, menu.Children[1])
	assert.Equal(t, &domain.Leaf{Text: "Hello there"}, menu.Children[2])

	inner, ok := menu.Children[3].(*domain.Branch)
	require.True(t, ok)
	assert.Equal(t, &domain.Leaf{Text: "deep"}, inner.Children[1])
}

func TestParse_Defaults(t *testing.T) {
	sb, err := file.Parse([]byte(`1: hi`))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), sb.Settings)
}

func TestParse_JSON(t *testing.T) {
	sb, err := file.Parse([]byte(`{"wait": 10, "1": {"2": "json works"}}`))
	require.NoError(t, err)
	assert.Equal(t, 10, sb.Settings.Wait)

	menu := sb.Root.Children[1].(*domain.Branch)
	assert.Equal(t, &domain.Leaf{Text: "json works"}, menu.Children[2])
}

func TestParse_TaggedLeaves(t *testing.T) {
	src := `
1: {say_team: Rotate to B}
2: {say_party: Party time}
3: {text: Only one line, lines: 1}
4: {text: Quiet, channel: team}
5: {fill: F2}
6: {fill: gg, lines: 3, channel: party}
7: {say: Public}
`
	sb, err := file.Parse([]byte(src))
	require.NoError(t, err)

	c := sb.Root.Children
	assert.Equal(t, &domain.Leaf{Text: "Rotate to B", Channel: domain.ChannelTeam}, c[1])
	assert.Equal(t, &domain.Leaf{Text: "Party time", Channel: domain.ChannelParty}, c[2])
	assert.Equal(t, &domain.Leaf{Text: "Only one line", ExpectLines: 1}, c[3])
	assert.Equal(t, &domain.Leaf{Text: "Quiet", Channel: domain.ChannelTeam}, c[4])
	assert.Equal(t, &domain.Leaf{Text: "F2", FillLines: 1}, c[5])
	assert.Equal(t, &domain.Leaf{Text: "gg", FillLines: 3, Channel: domain.ChannelParty}, c[6])
	assert.Equal(t, &domain.Leaf{Text: "Public"}, c[7])
}

func TestParse_AnchorsAndMerge(t *testing.T) {
	src := `
1: &taunts
  1: one
  2: two
2: *taunts
3:
  <<: *taunts
  2: overridden
  3: three
`
	sb, err := file.Parse([]byte(src))
	require.NoError(t, err)

	aliased := sb.Root.Children[2].(*domain.Branch)
	assert.Equal(t, []domain.Digit{1, 2}, aliased.Assigned())

	merged := sb.Root.Children[3].(*domain.Branch)
	assert.Equal(t, []domain.Digit{1, 2, 3}, merged.Assigned())
	assert.Equal(t, &domain.Leaf{Text: "one"}, merged.Children[1])
	assert.Equal(t, &domain.Leaf{Text: "overridden"}, merged.Children[2])
}

func TestParse_ExtensionKeysHoldAnchors(t *testing.T) {
	src := `
x-callouts: &callouts
  1: Incoming!
2:
  <<: *callouts
  3: Spy around here!
`
	sb, err := file.Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []domain.Digit{2}, sb.Root.Assigned())
	merged := sb.Root.Children[2].(*domain.Branch)
	assert.Equal(t, []domain.Digit{1, 3}, merged.Assigned())
}

func TestLoad_ShippedExample(t *testing.T) {
	sb, err := file.Load(filepath.Join("..", "..", "..", "examples", "soundboard.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 576, sb.Settings.Wait)

	res, err := compiler.New().Compile(context.Background(), sb)
	require.NoError(t, err)
	assert.Contains(t, res.Program.String(), `alias +SSBsay_23 "SSBreset;say Spy around here!"`)
	assert.Contains(t, res.Program.String(), `alias +SSBsay_22 "SSBreset;say_team Need a dispenser here"`)
}

func TestParse_MergeSequence(t *testing.T) {
	src := `
1: &a {1: from a, 2: a two}
2: &b {2: from b, 3: from b}
3:
  <<: [*a, *b]
`
	sb, err := file.Parse([]byte(src))
	require.NoError(t, err)
	merged := sb.Root.Children[3].(*domain.Branch)
	assert.Equal(t, &domain.Leaf{Text: "a two"}, merged.Children[2])
	assert.Equal(t, &domain.Leaf{Text: "from b"}, merged.Children[3])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
		path string
		line int
	}{
		{"Reserved Top Level", "0: nope\n", domain.ErrReservedDigit, "0", 1},
		{"Reserved Nested", "1:\n  3:\n    0: nope\n", domain.ErrReservedDigit, "1.3.0", 3},
		{"Number Leaf", "1:\n  2: 42\n", domain.ErrInvalidNode, "1.2", 2},
		{"Null Leaf", "1:\n  2:\n", domain.ErrInvalidNode, "1.2", 2},
		{"Sequence Leaf", "4: [a, b]\n", domain.ErrInvalidNode, "4", 1},
		{"Nested Unknown Key", "1:\n  x: y\n", domain.ErrUnknownKey, "1", 2},
		{"Nested Two Digits", "1:\n  12: y\n", domain.ErrUnknownKey, "1", 2},
		{"Duplicate Key", "1: a\n1: b\n", domain.ErrDuplicateKey, "", 2},
		{"Bad Doc", "1:\n  _: [x]\n  1: a\n", domain.ErrInvalidNode, "1", 2},
		{"Two Message Keys", "1: {text: a, say_team: b}\n", domain.ErrInvalidNode, "1", 1},
		{"Channel Conflict", "1: {say_team: a, channel: party}\n", domain.ErrInvalidNode, "1", 1},
		{"Unknown Channel", "1: {text: a, channel: radio}\n", domain.ErrInvalidNode, "1", 1},
		{"Unknown Message Option", "1: {text: a, color: red}\n", domain.ErrUnknownKey, "1", 1},
		{"Lines Not A Number", "1: {text: a, lines: many}\n", domain.ErrInvalidNode, "1", 1},
		{"Bad Wait", "wait: soon\n1: a\n", domain.ErrInvalidNode, "", 0},
		{"Negative Wait", "wait: -1\n1: a\n", domain.ErrInvalidNode, "", 0},
		{"Not A Mapping", "- a\n- b\n", domain.ErrNotObject, "", 1},
		{"Empty", "", domain.ErrNotObject, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := file.Parse([]byte(tt.src))
			ce := compileError(t, err)
			assert.ErrorIs(t, ce, tt.err)
			assert.Equal(t, tt.path, ce.Path.Dotted())
			assert.Equal(t, tt.line, ce.Line)
		})
	}
}

func TestParse_UnknownTopLevelKeysListed(t *testing.T) {
	_, err := file.Parse([]byte("zeta: 1\n1: a\nalpha: 2\ndir: user\n"))
	ce := compileError(t, err)
	assert.ErrorIs(t, ce, domain.ErrUnknownKey)
	assert.Contains(t, ce.Error(), "alpha, dir, zeta")
}

func TestParse_Syntax(t *testing.T) {
	_, err := file.Parse([]byte("1: [unclosed\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, file.ErrSyntax)
	var ce *domain.CompileError
	assert.False(t, errors.As(err, &ce))
}

func TestLoad_CompilesExample(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(src, []byte("1:\n  1: Hello\n  2: {say_team: push}\n"), 0644))

	sb, err := file.Load(src)
	require.NoError(t, err)

	res, err := compiler.New().Compile(context.Background(), sb)
	require.NoError(t, err)

	out, err := file.OutputPath(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "board.cfg"), out)

	require.NoError(t, file.WriteProgram(out, res.Program))
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.Program.String(), string(written))
	assert.Contains(t, string(written), `alias +SSBsay_12 "SSBreset;say_team push"`)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := file.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(src, []byte("0: x\n"), 0644))

	_, err := file.Load(src)
	assert.ErrorIs(t, err, domain.ErrReservedDigit)
	assert.Contains(t, err.Error(), "bad.yml")
}

func TestOutputPath(t *testing.T) {
	out, err := file.OutputPath("cfg/user/soundboard.yml")
	require.NoError(t, err)
	assert.Equal(t, "cfg/user/soundboard.cfg", out)

	out, err = file.OutputPath("noext")
	require.NoError(t, err)
	assert.Equal(t, "noext.cfg", out)

	_, err = file.OutputPath("soundboard.cfg")
	assert.ErrorIs(t, err, file.ErrOverwriteSource)
}

// anchorTower defines levels of anchored menus, each holding nine copies of
// the one below, and assigns the top one to digit 1.
func anchorTower(levels int) string {
	var b strings.Builder
	b.WriteString("x-l0: &l0 {1: a, 2: a, 3: a, 4: a, 5: a, 6: a, 7: a, 8: a, 9: a}\n")
	for i := 1; i < levels; i++ {
		fmt.Fprintf(&b, "x-l%d: &l%d {", i, i)
		for d := 1; d <= 9; d++ {
			if d > 1 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d: *l%d", d, i-1)
		}
		b.WriteString("}\n")
	}
	fmt.Fprintf(&b, "1: *l%d\n", levels-1)
	return b.String()
}

// mergeChain merges each anchored mapping twice into the next.
func mergeChain(levels int) string {
	var b strings.Builder
	b.WriteString("x-m0: &m0 {1: a}\n")
	for i := 1; i < levels; i++ {
		fmt.Fprintf(&b, "x-m%d: &m%d {<<: [*m%d, *m%d]}\n", i, i, i-1, i-1)
	}
	fmt.Fprintf(&b, "1: *m%d\n", levels-1)
	return b.String()
}

func TestParse_AliasExpansionIsBounded(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"Anchor Tower", anchorTower(7)},
		{"Merge Chain", mergeChain(40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Less(t, len(tt.src), 2048)

			start := time.Now()
			_, err := file.Parse([]byte(tt.src))
			ce := compileError(t, err)
			assert.ErrorIs(t, ce, domain.ErrTooManyNodes)
			assert.Equal(t, domain.KindCapacity, ce.Kind())
			assert.Equal(t, domain.Digit(1), ce.Path[0])
			assert.Less(t, time.Since(start), 2*time.Second)
		})
	}
}

func TestParse_MaxNodes(t *testing.T) {
	src := []byte("1:\n  1: a\n  2: b\n2: c\n")

	sb, err := file.Parse(src)
	require.NoError(t, err)
	assert.Len(t, sb.Root.Children, 2)

	_, err = file.Parse(src, file.WithMaxNodes(3))
	ce := compileError(t, err)
	assert.ErrorIs(t, ce, domain.ErrTooManyNodes)
	assert.Equal(t, "2", ce.Path.Dotted())
	assert.Equal(t, 4, ce.Line)
}

func TestParseContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := file.ParseContext(ctx, []byte("1: a\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
