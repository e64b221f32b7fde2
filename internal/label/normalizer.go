package label

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// bodyPattern captures the inner content of the first body element.
	// The start tag's attributes may not contain '>'. Nested bodies are
	// not supported: the outer body's inner content keeps the inner tags.
	bodyPattern = regexp.MustCompile(`<body(?:\s[^>]*?)?>(.+)</body>`)

	// tagPattern matches a start tag; quoted values may contain '>'.
	tagPattern = regexp.MustCompile(`<[A-Za-z](?:"[^"]*"|'[^']*'|[^'">])*>`)

	// attrPattern matches one attribute with a double quoted, single
	// quoted or unquoted value.
	attrPattern = regexp.MustCompile(`(\s[^\s"'=<>/]+\s*=\s*)(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
)

// strippedProperties are style properties the editor adds to every
// element. They carry no label formatting and are removed.
var strippedProperties = map[string]bool{
	"font-family":        true,
	"font-size":          true,
	"-qt-paragraph-type": true,
	"-qt-block-indent":   true,
}

// strippedPrefixes are removed by property-name prefix.
var strippedPrefixes = []string{
	"text-indent",
}

// smallerScript is appended after sub/superscript alignment so the
// raised or lowered glyphs render at a reduced size.
const smallerScript = "font-size:smaller"

// defaultSpan is the element the label editor wraps plain text in.
const defaultSpan = `<span style="margin-top:0px; margin-bottom:0px; margin-left:0px; margin-right:0px; text-indent:0px; font-family:'Times New Roman'; font-size:12pt;">%s</span>`

// Normalize reduces editor markup to a portable label.
//
// Newlines are removed, the document is cut down to the first body's
// inner content when a body exists, editor styling is stripped from
// attribute values, and sub/superscript alignment gains a smaller font
// size. Styling is cleaned in every attribute value of every start tag,
// whatever the attribute is called. When the result has no visible text
// an empty string is returned.
func Normalize(markup string) string {
	html := strings.ReplaceAll(markup, "\n", "")

	if m := bodyPattern.FindStringSubmatch(html); m != nil {
		html = m[1]
	}

	html = tagPattern.ReplaceAllStringFunc(html, rewriteTag)

	if PlainText(html) == "" {
		return ""
	}
	return html
}

// Wrap turns plain label text into the markup the editor starts from.
func Wrap(text string) string {
	return fmt.Sprintf(defaultSpan, text)
}

// rewriteTag cleans the attribute values of one start tag.
func rewriteTag(tag string) string {
	return attrPattern.ReplaceAllStringFunc(tag, rewriteAttr)
}

// rewriteAttr cleans one attribute. Values without editor styling are
// returned byte for byte.
func rewriteAttr(attr string) string {
	m := attrPattern.FindStringSubmatchIndex(attr)
	if m == nil {
		return attr
	}

	lead := attr[m[2]:m[3]]
	switch {
	case m[4] >= 0:
		if v, ok := cleanDeclarations(attr[m[4]:m[5]]); ok {
			return lead + `"` + v + `"`
		}
	case m[6] >= 0:
		if v, ok := cleanDeclarations(attr[m[6]:m[7]]); ok {
			return lead + `'` + v + `'`
		}
	default:
		if v, ok := cleanDeclarations(attr[m[8]:m[9]]); ok {
			return lead + `"` + v + `"`
		}
	}
	return attr
}

// cleanDeclarations filters a declaration list and rewrites
// sub/superscript alignment. Kept declarations are trimmed and joined
// with ';' without a trailing separator. The bool reports whether
// anything was stripped or rewritten; when it is false the value must
// be kept as is.
func cleanDeclarations(value string) (string, bool) {
	decls := splitDeclarations(value)
	kept := make([]string, 0, len(decls)+1)
	changed := false

	for _, decl := range decls {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}

		prop, val, hasValue := strings.Cut(decl, ":")
		prop = strings.TrimSpace(prop)
		if hasValue && isStripped(prop) {
			changed = true
			continue
		}

		if hasValue && prop == "vertical-align" {
			if align, ok := scriptAlign(val); ok {
				kept = append(kept, "vertical-align:"+align, smallerScript)
				changed = true
				continue
			}
		}

		kept = append(kept, decl)
	}

	return strings.Join(kept, ";"), changed
}

// scriptAlign reports whether a vertical-align value starts with the
// sub or super keyword and returns the value with leading space
// removed. Trailing text such as "!important" stays with the keyword.
func scriptAlign(val string) (string, bool) {
	v := strings.TrimSpace(val)
	if strings.HasPrefix(v, "super") || strings.HasPrefix(v, "sub") {
		return v, true
	}
	return "", false
}

func isStripped(prop string) bool {
	if strippedProperties[prop] {
		return true
	}
	for _, prefix := range strippedPrefixes {
		if strings.HasPrefix(prop, prefix) {
			return true
		}
	}
	return false
}

// splitDeclarations splits on ';' outside quotes and parentheses, so
// values such as font-family:'a;b' or url(x;y) stay whole.
func splitDeclarations(value string) []string {
	var (
		parts []string
		quote rune
		depth int
		start int
	)

	for i, r := range value {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			parts = append(parts, value[start:i])
			start = i + 1
		}
	}

	return append(parts, value[start:])
}
