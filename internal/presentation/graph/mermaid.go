package graph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/soundboard/pkg/domain"
)

// labelWidth bounds message previews in diagram nodes.
const labelWidth = 40

// Overlay highlights a key sequence on the diagram.
type Overlay struct {
	Selected domain.Path
}

// GenerateMermaid produces a Mermaid flowchart of the menu tree.
// Shapes:
// - Root: ((Circle))
// - Menu: [Rectangle]
// - Message: [/Parallelogram/], prefixed with the chat it goes to when not public
// Edges are labelled with the numpad digit that follows them.
func GenerateMermaid(sb *domain.Soundboard, overlay *Overlay) string {
	var out strings.Builder
	out.WriteString("graph TD\n")
	out.WriteString("    root((\"Soundboard\"))\n")
	if sb != nil && sb.Root != nil {
		writeBranch(&out, sb.Root, nil)
	}

	if overlay != nil && len(overlay.Selected) > 0 {
		out.WriteString("\n    %% Overlay Styles\n")
		out.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		out.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		out.WriteString("    class root visited;\n")
		for i := 1; i < len(overlay.Selected); i++ {
			fmt.Fprintf(&out, "    class %s visited;\n", nodeID(overlay.Selected[:i]))
		}
		fmt.Fprintf(&out, "    class %s current;\n", nodeID(overlay.Selected))
	}
	return out.String()
}

func writeBranch(out *strings.Builder, b *domain.Branch, path domain.Path) {
	from := nodeID(path)
	for _, d := range b.Assigned() {
		p := path.Child(d)
		id := nodeID(p)

		switch n := b.Children[d].(type) {
		case *domain.Branch:
			if n == nil {
				continue
			}
			label := preview(n.Doc)
			if label == "" {
				label = fmt.Sprintf("%d lines", len(n.Assigned()))
			}
			fmt.Fprintf(out, "    %s[\"%s\"]\n", id, escape(fmt.Sprintf("[%s] %s", p, label)))
			fmt.Fprintf(out, "    %s -- \"%d\" --> %s\n", from, d, id)
			writeBranch(out, n, p)
		case *domain.Leaf:
			if n == nil {
				continue
			}
			label := fmt.Sprintf("[%s] %s", p, preview(n.Text))
			if n.Channel != domain.ChannelPublic {
				label = n.Channel.String() + ": " + label
			}
			fmt.Fprintf(out, "    %s[/\"%s\"/]\n", id, escape(label))
			fmt.Fprintf(out, "    %s -- \"%d\" --> %s\n", from, d, id)
		}
	}
}

func nodeID(p domain.Path) string {
	if p.IsRoot() {
		return "root"
	}
	return "n" + p.String()
}

// preview flattens text to one line and cuts it at labelWidth runes.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= labelWidth {
		return text
	}
	return string([]rune(text)[:labelWidth-1]) + "…"
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
