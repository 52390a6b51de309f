package generator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var extraBlankLines = regexp.MustCompile(`\n{3,}`)

// Flattener turns markdown produced by the backend into plain text that
// renders cleanly in a LinkedIn post. Strong emphasis and headings lose
// their markup and list items become bullet lines. Links keep their text and
// target. Single emphasis and HTML are written as they appear in the source,
// so "SELECT *" or "<COALESCE>" survive.
type Flattener struct {
	md goldmark.Markdown
}

// NewFlattener returns a Flattener using the CommonMark parser.
func NewFlattener() *Flattener {
	return &Flattener{md: goldmark.New()}
}

// Flatten returns the plain text form of source.
func (f *Flattener) Flatten(source string) string {
	src := []byte(source)
	doc := f.md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.Emphasis:
			if node.Level == 1 {
				b.WriteByte(emphasisMarker(node, src))
			}
		case *ast.RawHTML:
			if entering {
				for i := 0; i < node.Segments.Len(); i++ {
					segment := node.Segments.At(i)
					b.Write(segment.Value(src))
				}
			}
		case *ast.HTMLBlock:
			if entering {
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					segment := lines.At(i)
					b.Write(segment.Value(src))
				}
				if node.HasClosure() {
					b.Write(node.ClosureLine.Value(src))
				}
				b.WriteByte('\n')
				return ast.WalkSkipChildren, nil
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.URL(src))
			}
		case *ast.Link:
			if !entering {
				b.WriteString(" (" + string(node.Destination) + ")")
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					segment := lines.At(i)
					b.Write(segment.Value(src))
				}
				b.WriteByte('\n')
				return ast.WalkSkipChildren, nil
			}
		case *ast.ListItem:
			if entering {
				b.WriteString(bullet(node))
			} else {
				b.WriteByte('\n')
			}
		case *ast.List:
			if !entering {
				b.WriteByte('\n')
			}
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				b.WriteString("\n\n")
			}
		case *ast.ThematicBreak:
			if entering {
				b.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	out := extraBlankLines.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

// emphasisMarker recovers the delimiter of a single emphasis from the byte in
// front of its first text.
func emphasisMarker(node *ast.Emphasis, src []byte) byte {
	for child := node.FirstChild(); child != nil; child = child.FirstChild() {
		t, ok := child.(*ast.Text)
		if !ok {
			continue
		}
		if start := t.Segment.Start; start > 0 && (src[start-1] == '*' || src[start-1] == '_') {
			return src[start-1]
		}
		break
	}
	return '*'
}

func bullet(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "• "
	}
	index := list.Start
	for sibling := list.FirstChild(); sibling != nil && sibling != ast.Node(item); sibling = sibling.NextSibling() {
		index++
	}
	return strconv.Itoa(index) + ". "
}
