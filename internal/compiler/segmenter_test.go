package compiler

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSegmenter() Segmenter {
	return Segmenter{Width: 127, PerSegment: 3}
}

func TestWrap_Greedy(t *testing.T) {
	s := Segmenter{Width: 10, PerSegment: 3}
	assert.Equal(t, []string{"aaa bbb", "cccc dd e", "ffff"}, s.Wrap("aaa bbb cccc dd e ffff"))
}

func TestWrap_HardNewline(t *testing.T) {
	s := defaultSegmenter()
	assert.Equal(t, []string{"short", "next line"}, s.Wrap("short\nnext line"))
	// Blank paragraphs produce no empty sends and do not stop the message.
	assert.Equal(t, []string{"a", "b"}, s.Wrap("a\n\nb"))
}

func TestWrap_SentenceLookahead(t *testing.T) {
	s := Segmenter{Width: 20, PerSegment: 3}

	// The next sentence fits, so both stay on one line.
	assert.Equal(t, []string{"Hello there. Bye."}, s.Wrap("Hello there. Bye."))

	// The next sentence would not fit: break at the period instead of mid-sentence.
	assert.Equal(t, []string{"Hello there.", "Goodbye my friend."}, s.Wrap("Hello there. Goodbye my friend."))
}

func TestWrap_OverlongWord(t *testing.T) {
	s := defaultSegmenter()
	lines := s.Wrap(strings.Repeat("x", 300))

	require.Len(t, lines, 3)
	assert.Equal(t, 127, len(lines[0]))
	assert.Equal(t, 127, len(lines[1]))
	assert.Equal(t, 46, len(lines[2]))
}

func TestWrap_CountsRunes(t *testing.T) {
	s := Segmenter{Width: 5, PerSegment: 3}
	assert.Equal(t, []string{"ééé é"}, s.Wrap("ééé é"))
}

func TestWrap_Empty(t *testing.T) {
	s := defaultSegmenter()
	assert.Empty(t, s.Wrap(""))
	assert.Empty(t, s.Wrap("   \n  "))

	segs := s.Segment("")
	require.Len(t, segs, 1)
	assert.Empty(t, segs[0].Sends)
}

func TestPaginate(t *testing.T) {
	s := Segmenter{Width: 127, PerSegment: 3}
	lines := []string{"1", "2", "3", "4", "5", "6", "7"}

	segs := s.Paginate(lines)
	require.Len(t, segs, 3)
	assert.Equal(t, []string{"1", "2", "3"}, segs[0].Sends)
	assert.Equal(t, []string{"4", "5", "6"}, segs[1].Sends)
	assert.Equal(t, []string{"7"}, segs[2].Sends)
	for i, seg := range segs {
		assert.Equal(t, i, seg.Index)
	}
}

func TestFill(t *testing.T) {
	s := defaultSegmenter()

	one := s.Fill("F2", 1)
	assert.Equal(t, 42, len(strings.Fields(one)))
	assert.Len(t, s.Wrap(one), 1)

	three := s.Fill("gg ", 3)
	assert.Len(t, s.Wrap(three), 3)

	assert.Equal(t, "", s.Fill("   ", 2))
}

func randomText(r *rand.Rand, words, maxWord int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	parts := make([]string, words)
	for i := range parts {
		n := 1 + r.Intn(maxWord)
		b := make([]byte, n)
		for j := range b {
			b[j] = letters[r.Intn(len(letters))]
		}
		parts[i] = string(b)
	}
	return strings.Join(parts, " ")
}

func TestWrap_NeverExceedsWidth(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	s := defaultSegmenter()
	for i := 0; i < 200; i++ {
		text := randomText(r, 1+r.Intn(120), 126)
		for _, line := range s.Wrap(text) {
			if len(line) > s.Width || !utf8.ValidString(line) {
				t.Fatalf("line of %d bytes exceeds width or splits a rune for input %q", len(line), text)
			}
		}
	}
}

func TestWrap_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := Segmenter{Width: 40, PerSegment: 3}
	for i := 0; i < 200; i++ {
		text := randomText(r, 1+r.Intn(60), 39)
		// Sprinkle sentence ends and hard breaks.
		text = strings.Replace(text, " ", ". ", 2)
		text = strings.Replace(text, " ", "\n", 1)

		var got []string
		for _, seg := range s.Segment(text) {
			for _, send := range seg.Sends {
				got = append(got, strings.Fields(send)...)
			}
		}
		assert.Equal(t, strings.Fields(text), got)
	}
}
