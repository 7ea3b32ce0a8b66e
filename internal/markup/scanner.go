// Package markup implements a tolerant scanner for the ad hoc
// tagged-text format the analysis prompts ask the model to produce:
// answer blocks, clause blocks, category-mention tags with a reason
// attribute, and per-question answer blocks.
//
// Model output is not guaranteed to be well-formed, so this is not an
// XML parser. The scanner tolerates unclosed tags, stray closing
// markers, and nested repeats of the same tag name; malformed input
// yields empty results rather than errors.
package markup

import "strings"

// Block is one extracted tag occurrence: its attributes and inner text.
type Block struct {
	// Attrs holds the tag's attributes. Values may be quoted with
	// single or double quotes, or unquoted up to the next space.
	Attrs map[string]string

	// Content is the raw text between the opening and closing tag,
	// with surrounding whitespace trimmed.
	Content string
}

// Attr returns the named attribute, or "" when absent.
func (b Block) Attr(name string) string { return b.Attrs[name] }

// Blocks extracts every non-overlapping occurrence of <name ...>...</name>
// from the input, in document order. A block missing its closing tag is
// closed at the next opening of the same tag, or at end of input; this
// is what makes truncated model output usable.
func Blocks(input, name string) []Block {
	var blocks []Block

	open := "<" + name
	closing := "</" + name + ">"

	rest := input
	for {
		start := indexOpenTag(rest, open)
		if start < 0 {
			break
		}
		afterOpen := rest[start:]

		tagEnd := strings.Index(afterOpen, ">")
		if tagEnd < 0 {
			// Opening tag itself was cut off mid-attribute. Nothing
			// usable follows.
			break
		}
		rawAttrs := afterOpen[len(open):tagEnd]
		body := afterOpen[tagEnd+1:]

		// Close at the explicit closing marker, the next sibling open
		// tag, or end of input, whichever comes first.
		end := strings.Index(body, closing)
		next := indexOpenTag(body, open)
		consumed := len(body)
		switch {
		case end >= 0 && (next < 0 || end <= next):
			consumed = end + len(closing)
		case next >= 0:
			end = next
			consumed = next
		default:
			end = len(body)
		}

		blocks = append(blocks, Block{
			Attrs:   parseAttrs(rawAttrs),
			Content: strings.TrimSpace(body[:end]),
		})

		rest = body[consumed:]
	}

	return blocks
}

// First returns the first block of the given tag name and whether one
// was found.
func First(input, name string) (Block, bool) {
	blocks := Blocks(input, name)
	if len(blocks) == 0 {
		return Block{}, false
	}
	return blocks[0], true
}

// EnsureClosed appends the closing marker for name when the input
// contains an unmatched opening tag. Truncated responses routinely lose
// the final closing marker; appending it lets the block scanner recover
// everything that was emitted before the cut.
func EnsureClosed(input, name string) string {
	open := "<" + name
	closing := "</" + name + ">"
	if strings.LastIndex(input, closing) >= indexOpenTag(input, open) && strings.Contains(input, closing) {
		return input
	}
	if indexOpenTag(input, open) < 0 {
		return input
	}
	return input + closing
}

// Contains reports whether input holds at least one opening tag of name.
func Contains(input, name string) bool { return indexOpenTag(input, "<"+name) >= 0 }

// indexOpenTag finds an opening tag occurrence, requiring the character
// after the tag name to terminate the name. This keeps <answer> from
// matching inside <answers> or <answer_state>.
func indexOpenTag(s, open string) int {
	from := 0
	for {
		i := strings.Index(s[from:], open)
		if i < 0 {
			return -1
		}
		i += from
		rest := s[i+len(open):]
		if rest == "" {
			// A bare "<name" at end of input counts as a truncated open.
			return i
		}
		switch rest[0] {
		case '>', ' ', '\t', '\n', '\r', '/':
			return i
		}
		from = i + len(open)
	}
}

// parseAttrs extracts name=value pairs from the raw attribute region of
// an opening tag. Values may be single-quoted, double-quoted, or bare.
// Malformed fragments are skipped.
func parseAttrs(raw string) map[string]string {
	attrs := map[string]string{}
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "/"))

	for s != "" {
		s = strings.TrimLeft(s, " \t\n\r")
		eq := strings.Index(s, "=")
		if eq <= 0 {
			break
		}
		name := strings.TrimSpace(s[:eq])
		if strings.ContainsAny(name, " \t\n\r") {
			// Something like `foo bar=1`: drop the stray token.
			name = name[strings.LastIndexAny(name, " \t\n\r")+1:]
		}
		s = s[eq+1:]
		if s == "" {
			break
		}

		var value string
		switch s[0] {
		case '"', '\'':
			quote := s[0]
			end := strings.IndexByte(s[1:], quote)
			if end < 0 {
				// Unterminated quote: take the remainder.
				value, s = s[1:], ""
			} else {
				value, s = s[1:1+end], s[end+2:]
			}
		default:
			end := strings.IndexAny(s, " \t\n\r")
			if end < 0 {
				value, s = s, ""
			} else {
				value, s = s[:end], s[end:]
			}
		}

		if name != "" {
			attrs[name] = value
		}
	}

	return attrs
}
