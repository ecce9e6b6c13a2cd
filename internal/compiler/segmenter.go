package compiler

import (
	"strings"
	"unicode/utf8"

	"github.com/aretw0/soundboard/pkg/console"
)

// Segment is one page of a chat message: the sends that share one alias body.
type Segment struct {
	Index int
	Sends []string
}

// Segmenter word-wraps chat messages and paginates them into segments.
type Segmenter struct {
	// Width is the maximum number of bytes per chat line.
	Width int
	// PerSegment is the maximum number of sends per segment.
	PerSegment int
}

// Segment wraps text and paginates the resulting lines.
func (s Segmenter) Segment(text string) []Segment {
	return s.Paginate(s.Wrap(text))
}

// Wrap splits text into chat lines of at most Width bytes.
//
// Words are packed greedily. A newline always ends the line. When a word
// closes a sentence the line is also ended there, unless the whole next
// sentence fits on it too, so sentences stay together when they can. A word
// longer than Width is cut into Width-sized pieces, each on its own line,
// without splitting a rune.
func (s Segmenter) Wrap(text string) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, s.wrapParagraph(splitWords(para))...)
	}
	return lines
}

func (s Segmenter) wrapParagraph(words []string) []string {
	var (
		lines  []string
		cur    []string
		curLen int
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		lines = append(lines, strings.Join(cur, " "))
		cur = cur[:0]
		curLen = 0
	}

	for i := 0; i < len(words); i++ {
		w := words[i]
		n := len(w)

		if n > s.Width {
			flush()
			for len(w) > s.Width {
				piece := console.Truncate(w, s.Width)
				if piece == "" {
					// A single rune wider than the line still has to go somewhere.
					_, size := utf8.DecodeRuneInString(w)
					piece = w[:size]
				}
				lines = append(lines, piece)
				w = w[len(piece):]
			}
			n = len(w)
		}

		if len(cur) > 0 && curLen+1+n > s.Width {
			flush()
		}
		if len(cur) > 0 {
			curLen++
		}
		cur = append(cur, w)
		curLen += n

		if strings.HasSuffix(w, ".") && i+1 < len(words) {
			if curLen+1+sentenceWidth(words[i+1:]) > s.Width {
				flush()
			}
		}
	}
	flush()
	return lines
}

// sentenceWidth measures the words up to and including the next one ending
// in a period, or all of them when none does.
func sentenceWidth(words []string) int {
	width := 0
	for i, w := range words {
		if i > 0 {
			width++
		}
		width += len(w)
		if strings.HasSuffix(w, ".") {
			break
		}
	}
	return width
}

func splitWords(para string) []string {
	parts := strings.Split(para, " ")
	words := parts[:0]
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// Paginate groups lines into segments of at most PerSegment sends.
// No lines still yields one empty segment.
func (s Segmenter) Paginate(lines []string) []Segment {
	if len(lines) == 0 {
		return []Segment{{Index: 0}}
	}
	segments := make([]Segment, 0, (len(lines)+s.PerSegment-1)/s.PerSegment)
	for start := 0; start < len(lines); start += s.PerSegment {
		end := min(start+s.PerSegment, len(lines))
		segments = append(segments, Segment{Index: len(segments), Sends: lines[start:end:end]})
	}
	return segments
}

// Fill repeats unit, separated by spaces, as many times as fits in the given number of lines.
func (s Segmenter) Fill(unit string, lines int) string {
	unit = strings.TrimSpace(unit)
	if unit == "" || lines <= 0 {
		return unit
	}
	step := len(unit) + 1
	perLine := max((s.Width+1)/step, 1)
	return strings.TrimSuffix(strings.Repeat(unit+" ", perLine*lines), " ")
}
