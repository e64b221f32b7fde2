package label

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// objectReplacement stands in for inline images, matching how rich-text
// editors expose embedded objects in their plain text.
const objectReplacement = "\ufffc"

// PlainText returns the visible text of markup with whitespace
// collapsed to single spaces and trimmed. Entities are decoded, the
// content of head, title, style and script elements is ignored, block
// boundaries and line breaks count as whitespace, and each image counts
// as one object character.
func PlainText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))

	var (
		b      strings.Builder
		hidden int
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; either way the text so far is the result.
			return strings.Join(strings.Fields(b.String()), " ")

		case html.TextToken:
			if hidden == 0 {
				b.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case isHidden(a):
				if tt == html.StartTagToken {
					hidden++
				}
			case a == atom.Img:
				if hidden == 0 {
					b.WriteString(objectReplacement)
				}
			case isBreaking(a):
				b.WriteByte(' ')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case isHidden(a):
				if hidden > 0 {
					hidden--
				}
			case isBreaking(a):
				b.WriteByte(' ')
			}
		}
	}
}

// IsEmpty reports whether markup has no visible text.
func IsEmpty(markup string) bool {
	return PlainText(markup) == ""
}

// Digest returns the hex SHA3-256 of a label. An empty label has an
// empty digest.
func Digest(label string) string {
	if label == "" {
		return ""
	}
	sum := sha3.Sum256([]byte(label))
	return hex.EncodeToString(sum[:])
}

func isHidden(a atom.Atom) bool {
	switch a {
	case atom.Head, atom.Title, atom.Style, atom.Script:
		return true
	}
	return false
}

func isBreaking(a atom.Atom) bool {
	switch a {
	case atom.Br, atom.P, atom.Div, atom.Li, atom.Tr, atom.Td, atom.Th,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Hr:
		return true
	}
	return false
}
