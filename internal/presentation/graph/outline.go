package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/soundboard/internal/compiler"
	"github.com/aretw0/soundboard/pkg/console"
	"github.com/aretw0/soundboard/pkg/domain"
)

// GenerateMarkdown renders the menu as a nested markdown list, the way it
// reads on the numpad: key sequence, then what it does.
func GenerateMarkdown(sb *domain.Soundboard, limits console.Limits) string {
	var out strings.Builder
	out.WriteString("# Soundboard\n\n")
	if sb == nil || sb.Root == nil {
		out.WriteString("_empty_\n")
		return out.String()
	}

	out.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&out, "| wait | %d frames |\n", sb.Settings.Wait)
	fmt.Fprintf(&out, "| help duration | %d s |\n\n", sb.Settings.HelpDuration)

	seg := compiler.Segmenter{Width: limits.LineWidth, PerSegment: limits.SendsPerAlias}
	writeOutline(&out, seg, sb.Root, nil)
	out.WriteString("\nPress **0** at any time to cancel.\n")
	return out.String()
}

func writeOutline(out *strings.Builder, seg compiler.Segmenter, b *domain.Branch, path domain.Path) {
	indent := strings.Repeat("  ", len(path))
	for _, d := range b.Assigned() {
		p := path.Child(d)
		switch n := b.Children[d].(type) {
		case *domain.Branch:
			if n == nil {
				continue
			}
			label := strings.Join(strings.Fields(compiler.Sanitize(n.Doc)), " ")
			if label == "" {
				label = "menu"
			}
			fmt.Fprintf(out, "%s- **%s** %s\n", indent, p.Dotted(), markdownEscape(label))
			writeOutline(out, seg, n, p)
		case *domain.Leaf:
			if n == nil {
				continue
			}
			text := compiler.Sanitize(n.Text)
			if n.FillLines > 0 {
				text = seg.Fill(text, n.FillLines)
			}
			lines := len(seg.Wrap(text))

			var notes []string
			if lines != 1 {
				notes = append(notes, fmt.Sprintf("%d lines", lines))
			}
			if n.Channel != domain.ChannelPublic {
				notes = append(notes, n.Channel.String())
			}
			note := ""
			if len(notes) > 0 {
				note = " _(" + strings.Join(notes, ", ") + ")_"
			}
			fmt.Fprintf(out, "%s- **%s** %s%s\n", indent, p.Dotted(), markdownEscape(preview(text)), note)
		}
	}
}

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func markdownEscape(s string) string {
	return markdownEscaper.Replace(s)
}
