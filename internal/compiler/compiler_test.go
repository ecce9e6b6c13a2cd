package compiler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func board(children map[domain.Digit]domain.Node) *domain.Soundboard {
	sb := domain.NewSoundboard()
	sb.Root.Children = children
	return sb
}

func menu(doc string, children map[domain.Digit]domain.Node) *domain.Branch {
	return &domain.Branch{Doc: doc, Children: children}
}

func compile(t *testing.T, sb *domain.Soundboard, opts ...Option) *Result {
	t.Helper()
	res, err := New(opts...).Compile(context.Background(), sb)
	require.NoError(t, err)
	return res
}

func body(t *testing.T, res *Result, token string) string {
	t.Helper()
	a, ok := res.Program.Lookup(token)
	require.True(t, ok, "alias %s not defined", token)
	return a.Body
}

func TestCompile_SingleLeafProgram(t *testing.T) {
	res := compile(t, board(map[domain.Digit]domain.Node{1: &domain.Leaf{Text: "Hi"}}))

	var want strings.Builder
	want.WriteString("developer 1\n")
	want.WriteString("con_filter_enable 2\n")
	want.WriteString("con_filter_text \"*****\"\n")
	want.WriteString("con_notifytime 4\n")
	want.WriteString("alias SSBcout \"con_filter_enable 0\"\n")
	want.WriteString("alias SSBendl \"con_filter_enable 2\"\n")
	want.WriteString("alias +SSBsay_1 \"SSBreset;say Hi\"\n")
	want.WriteString("alias -SSBsay_1 \"\"\n")
	want.WriteString("alias SSBhelp_1 \"echo [1] Hi\"\n")
	for d := 2; d <= 9; d++ {
		fmt.Fprintf(&want, "alias +SSBsay_%d SSBcout\n", d)
		fmt.Fprintf(&want, "alias -SSBsay_%d \"SSBreset;echo [%d] unused;SSBendl\"\n", d, d)
	}
	want.WriteString("alias +SSBsay_ SSBcout\n")
	want.WriteString("alias -SSBsay_ \"SSBreset;SSBhelp_1;SSBendl\"\n")
	want.WriteString("alias SSBreset \"bind KP_END +SSBsay_1;bind KP_DOWNARROW +SSBsay_2;bind KP_PGDN +SSBsay_3;" +
		"bind KP_LEFTARROW +SSBsay_4;bind KP_5 +SSBsay_5;bind KP_RIGHTARROW +SSBsay_6;bind KP_HOME +SSBsay_7;" +
		"bind KP_UPARROW +SSBsay_8;bind KP_PGUP +SSBsay_9\"\n")
	want.WriteString("bind KP_INS +SSBsay_;\n")
	want.WriteString("SSBreset;\n")

	if diff := cmp.Diff(strings.Split(want.String(), "\n"), strings.Split(res.Program.String(), "\n")); diff != "" {
		t.Errorf("program mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "SSBreset;say Hi;", body(t, res, "+SSBsay_1"))
}

func TestCompile_LongWordIsPaged(t *testing.T) {
	text := strings.Repeat("a", 300)
	sb := board(map[domain.Digit]domain.Node{1: &domain.Leaf{Text: text}})

	res := compile(t, sb)
	want := "SSBreset;say " + strings.Repeat("a", 127) + ";wait 100;say " + strings.Repeat("a", 127) + ";wait 100;say " + strings.Repeat("a", 46) + ";"
	assert.Equal(t, want, body(t, res, "+SSBsay_1"))
	assert.Equal(t, 3, res.Stats.Sends)

	// One send per alias: three chained segments.
	limits := console.DefaultLimits()
	limits.SendsPerAlias = 1
	res = compile(t, sb, WithLimits(limits))

	assert.Equal(t, "ssbs_1_0", body(t, res, "+SSBsay_1"))
	assert.Equal(t, "SSBreset;say "+strings.Repeat("a", 127)+";ssbs_1_1", body(t, res, "ssbs_1_0"))
	assert.Equal(t, "wait 100;say "+strings.Repeat("a", 127)+";ssbs_1_2", body(t, res, "ssbs_1_1"))
	assert.Equal(t, "wait 100;say "+strings.Repeat("a", 46)+";", body(t, res, "ssbs_1_2"))
	assert.Equal(t, "", body(t, res, "-SSBsay_1"))
	assert.Equal(t, 3, res.Stats.Segments)
	assert.Equal(t, "echo [1] {3 lines} "+strings.Repeat("a", 127), body(t, res, "SSBhelp_1"))
}

func TestCompile_NestedBranch(t *testing.T) {
	sb := board(map[domain.Digit]domain.Node{
		1: menu("", map[domain.Digit]domain.Node{
			1: &domain.Leaf{Text: "a"},
			2: &domain.Leaf{Text: "b"},
		}),
	})
	res := compile(t, sb)

	assert.Equal(t, "echo [1] 2 lines", body(t, res, "SSBhelp_1"))
	assert.Equal(t, "SSBcout", body(t, res, "+SSBsay_1"))

	exit := body(t, res, "-SSBsay_1")
	assert.True(t, strings.HasPrefix(exit,
		"bind KP_END +SSBsay_11;bind KP_DOWNARROW +SSBsay_12;bind KP_PGDN +SSBsay_13;"), exit)
	assert.True(t, strings.HasSuffix(exit, "bind KP_PGUP +SSBsay_19;SSBhelp_11;SSBhelp_12;SSBendl;"), exit)

	// Digits 3-9 under "1" fall through to the not-found handler.
	for d := 3; d <= 9; d++ {
		p := fmt.Sprintf("1%d", d)
		assert.Equal(t, "SSBcout;", body(t, res, "+SSBsay_"+p))
		assert.Equal(t, fmt.Sprintf("SSBreset;echo [%s] unused;SSBendl;", p), body(t, res, "-SSBsay_"+p))
	}
	assert.Equal(t, 1, res.Stats.Branches)
	assert.Equal(t, 2, res.Stats.Leaves)
}

func TestCompile_BranchDocOverridesSummary(t *testing.T) {
	sb := board(map[domain.Digit]domain.Node{
		2: menu(`Taunts; "loud"`, map[domain.Digit]domain.Node{1: &domain.Leaf{Text: "x"}}),
	})
	res := compile(t, sb)
	assert.Equal(t, "echo [2] Taunts ''loud''", body(t, res, "SSBhelp_2"))
}

func TestCompile_MultilineDocStaysOnOneLine(t *testing.T) {
	sb := board(map[domain.Digit]domain.Node{
		1: menu("Taunts\nand jokes\n", map[domain.Digit]domain.Node{1: &domain.Leaf{Text: "x"}}),
	})
	res := compile(t, sb)
	assert.Equal(t, "echo [1] Taunts and jokes", body(t, res, "SSBhelp_1"))

	out := strings.TrimSuffix(res.Program.String(), "\n")
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, res.Program.Len())
	for _, line := range lines {
		assert.Regexp(t, `^(developer|con_filter_enable|con_filter_text|con_notifytime|alias|bind|SSBreset;$)`, line)
	}
}

func TestCompile_MultiByteText(t *testing.T) {
	word := strings.Repeat("é", 100)
	sb := board(map[domain.Digit]domain.Node{1: &domain.Leaf{Text: word + " " + word + " " + word}})

	res := compile(t, sb)
	// Each 200-byte word is cut at 63 runes (126 bytes): six lines in two segments.
	assert.Equal(t, 6, res.Stats.Sends)
	assert.Equal(t, 2, res.Stats.Segments)
	for _, token := range []string{"ssbs_1_0", "ssbs_1_1"} {
		for _, cmd := range strings.Split(body(t, res, token), ";") {
			text, ok := strings.CutPrefix(cmd, "say ")
			if !ok {
				continue
			}
			assert.LessOrEqual(t, len(text), console.MaxLineLength)
			assert.True(t, utf8.ValidString(text), text)
		}
	}
	assert.True(t, strings.HasPrefix(body(t, res, "ssbs_1_0"), "SSBreset;say "+strings.Repeat("é", 63)+";wait 100;say "+strings.Repeat("é", 37)+";"))
}

func TestCompile_ChildrenBeforeParent(t *testing.T) {
	sb := board(map[domain.Digit]domain.Node{
		1: menu("", map[domain.Digit]domain.Node{1: &domain.Leaf{Text: "a"}}),
	})
	res := compile(t, sb)

	order := make(map[string]int)
	for i, d := range res.Program.Directives() {
		if a, ok := d.(console.Alias); ok {
			order[a.Token] = i
		}
	}
	assert.Less(t, order["SSBhelp_1"], order["+SSBsay_11"])
	assert.Less(t, order["+SSBsay_19"], order["-SSBsay_1"])
	assert.Less(t, order["-SSBsay_1"], order["+SSBsay_2"])
	assert.Less(t, order["-SSBsay_"], order["SSBreset"])
}

func TestCompile_ReservedDigit(t *testing.T) {
	tests := []struct {
		name string
		sb   *domain.Soundboard
		path string
	}{
		{
			name: "Top Level",
			sb:   board(map[domain.Digit]domain.Node{0: &domain.Leaf{Text: "x"}}),
			path: "0",
		},
		{
			name: "Nested",
			sb: board(map[domain.Digit]domain.Node{
				1: &domain.Leaf{Text: "ok"},
				3: menu("", map[domain.Digit]domain.Node{
					2: menu("", map[domain.Digit]domain.Node{0: &domain.Leaf{Text: "x"}}),
				}),
			}),
			path: "3.2.0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New().Compile(context.Background(), tt.sb)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, domain.ErrReservedDigit)

			var ce *domain.CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.path, ce.Path.Dotted())
			assert.Equal(t, domain.KindStructural, ce.Kind())
		})
	}
}

type bogusNode struct{ domain.Leaf }

func TestCompile_InvalidNode(t *testing.T) {
	var nilLeaf *domain.Leaf
	for name, node := range map[string]domain.Node{
		"Nil Interface": nil,
		"Nil Leaf":      nilLeaf,
		"Foreign Type":  &bogusNode{},
	} {
		t.Run(name, func(t *testing.T) {
			sb := board(map[domain.Digit]domain.Node{4: menu("", map[domain.Digit]domain.Node{5: node})})
			_, err := New().Compile(context.Background(), sb)
			assert.ErrorIs(t, err, domain.ErrInvalidNode)
			assert.Contains(t, err.Error(), "soundboard.4.5")
		})
	}
}

func TestCompile_DigitOutOfRange(t *testing.T) {
	sb := board(map[domain.Digit]domain.Node{12: &domain.Leaf{Text: "x"}})
	_, err := New().Compile(context.Background(), sb)
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}

func TestCompile_CapacityOverflow(t *testing.T) {
	// A chain of single-child menus: the exit alias of a deep branch must
	// rebind nine keys to long names and eventually exceeds the ceiling.
	var node domain.Node = &domain.Leaf{Text: "deep"}
	for i := 0; i < 30; i++ {
		node = menu("", map[domain.Digit]domain.Node{1: node})
	}
	sb := board(map[domain.Digit]domain.Node{1: node})

	res, err := New().Compile(context.Background(), sb)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrCommandTooLong)

	var ce *domain.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.KindCapacity, ce.Kind())
	// The innermost menu overflows first: its exit alias is 240+10*30 chars.
	assert.Len(t, ce.Path, 30)
}

func TestCompile_SegmentOverflowFailsLoudly(t *testing.T) {
	limits := console.DefaultLimits()
	limits.CommandLength = 100
	sb := board(map[domain.Digit]domain.Node{
		1: &domain.Leaf{Text: strings.Repeat("word ", 60)},
	})
	_, err := New(WithLimits(limits)).Compile(context.Background(), sb)
	assert.ErrorIs(t, err, domain.ErrCommandTooLong)
}

func TestCompile_Channels(t *testing.T) {
	sb := board(map[domain.Digit]domain.Node{
		1: &domain.Leaf{Text: "team msg", Channel: domain.ChannelTeam},
		2: &domain.Leaf{Text: "party msg", Channel: domain.ChannelParty},
	})
	res := compile(t, sb)
	assert.Equal(t, "SSBreset;say_team team msg;", body(t, res, "+SSBsay_1"))
	assert.Equal(t, "SSBreset;say_party party msg;", body(t, res, "+SSBsay_2"))
}

func TestCompile_LineAssertion(t *testing.T) {
	ok := board(map[domain.Digit]domain.Node{6: &domain.Leaf{Text: "one line", ExpectLines: 1}})
	compile(t, ok)

	bad := board(map[domain.Digit]domain.Node{6: &domain.Leaf{Text: strings.Repeat("long ", 40), ExpectLines: 1}})
	_, err := New().Compile(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrLineCount)
	assert.Contains(t, err.Error(), "soundboard.6")
}

func TestCompile_Fill(t *testing.T) {
	sb := board(map[domain.Digit]domain.Node{
		7: &domain.Leaf{Text: "F2", FillLines: 1, Channel: domain.ChannelTeam},
	})
	res := compile(t, sb)
	want := "SSBreset;say_team " + strings.TrimSpace(strings.Repeat("F2 ", 42)) + ";"
	assert.Equal(t, want, body(t, res, "+SSBsay_7"))
}

func TestCompile_EmptyLeaf(t *testing.T) {
	res := compile(t, board(map[domain.Digit]domain.Node{1: &domain.Leaf{Text: "   "}}))
	assert.Equal(t, "SSBreset;", body(t, res, "+SSBsay_1"))
	assert.Equal(t, "echo [1]", body(t, res, "SSBhelp_1"))
}

func TestCompile_WaitAndHelpDuration(t *testing.T) {
	sb := board(map[domain.Digit]domain.Node{1: &domain.Leaf{Text: "a\nb"}})
	sb.Settings = domain.Settings{Wait: 576, HelpDuration: 8}

	res := compile(t, sb)
	assert.Equal(t, "SSBreset;say a;wait 576;say b;", body(t, res, "+SSBsay_1"))
	assert.Contains(t, res.Program.String(), "con_notifytime 8\n")

	sb.Settings.Wait = -1
	_, err := New().Compile(context.Background(), sb)
	assert.Error(t, err)
}

func TestCompile_WaitIsTakenAsGiven(t *testing.T) {
	leaf := map[domain.Digit]domain.Node{1: &domain.Leaf{Text: "a\nb"}}

	res := compile(t, board(leaf))
	assert.Equal(t, "SSBreset;say a;wait 100;say b;", body(t, res, "+SSBsay_1"))

	// Hand-built settings are used verbatim; only HelpDuration has a fallback.
	bare := &domain.Soundboard{Root: &domain.Branch{Children: leaf}}
	res = compile(t, bare)
	assert.Equal(t, "SSBreset;say a;wait 0;say b;", body(t, res, "+SSBsay_1"))
	assert.Contains(t, res.Program.String(), "con_notifytime 4\n")
}

func TestCompile_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Compile(ctx, board(map[domain.Digit]domain.Node{1: &domain.Leaf{Text: "Hi"}}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompile_Idempotent(t *testing.T) {
	sb := board(map[domain.Digit]domain.Node{
		1: menu("Greetings", map[domain.Digit]domain.Node{
			1: &domain.Leaf{Text: "Hello there. How are you doing today? I hope well."},
			2: &domain.Leaf{Text: strings.Repeat("Lorem ipsum dolor sit amet. ", 30)},
		}),
		5: &domain.Leaf{Text: "gg", Channel: domain.ChannelTeam},
		9: menu("", map[domain.Digit]domain.Node{9: menu("", map[domain.Digit]domain.Node{9: &domain.Leaf{Text: "deep"}})}),
	})

	first := compile(t, sb).Program.String()
	second := compile(t, sb).Program.String()
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestCompile_Hooks(t *testing.T) {
	var nodes []*domain.NodeEvent
	var done *domain.CompileEvent
	hooks := domain.CompileHooks{
		OnNodeEncoded: func(_ context.Context, e *domain.NodeEvent) { nodes = append(nodes, e) },
		OnCompiled:    func(_ context.Context, e *domain.CompileEvent) { done = e },
	}

	res := compile(t, board(map[domain.Digit]domain.Node{1: &domain.Leaf{Text: "Hi"}}), WithHooks(hooks))

	// 9 digits plus the root branch.
	assert.Len(t, nodes, 10)
	assert.Equal(t, domain.KindLeaf, nodes[0].Kind)
	assert.Equal(t, "1", nodes[0].Path)
	require.NotNil(t, done)
	assert.NoError(t, done.Err)
	assert.Equal(t, res.Stats, done.Stats)
	assert.Equal(t, len(res.Program.String()), res.Stats.Bytes)

	_, err := New(WithHooks(hooks)).Compile(context.Background(), board(map[domain.Digit]domain.Node{0: &domain.Leaf{}}))
	require.Error(t, err)
	assert.ErrorIs(t, done.Err, domain.ErrReservedDigit)
}

func TestCompile_NilSoundboard(t *testing.T) {
	_, err := New().Compile(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNotObject)
}
