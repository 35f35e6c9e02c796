package extractor

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"urlharvest/pkg/errors"
)

// Scanner locates and extracts the embedded payload block from a fetched
// body. The block is identified by tag name plus a class attribute value,
// e.g. <pre class="json">, so extra attributes on the start tag do not
// break the match.
type Scanner struct {
	tag   string
	class string
}

// NewScanner creates a scanner for the given tag name and class value.
func NewScanner(tag, class string) *Scanner {
	return &Scanner{
		tag:   strings.ToLower(tag),
		class: class,
	}
}

// HasPayload checks whether the body contains a payload block that would
// yield non-empty text after unescaping.
func (s *Scanner) HasPayload(body []byte) bool {
	text, found := s.locate(body)
	return found && strings.TrimSpace(text) != ""
}

// Extract returns the unescaped inner text of the first payload block.
// A missing start marker or empty/whitespace-only content is an
// extraction error, never a silent empty result.
func (s *Scanner) Extract(body []byte) (string, error) {
	text, found := s.locate(body)
	if !found {
		return "", errors.New(errors.ErrorTypeExtraction, "payload block not found")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New(errors.ErrorTypeExtraction, "payload block is empty")
	}
	return text, nil
}

// locate walks the token stream for the first matching start tag and
// collects text until the matching end tag. The tokenizer unescapes HTML
// entities in text tokens, which covers &lt; &gt; &amp; &quot; and the
// rest. A body that ends before the end marker (truncated response) still
// yields the text collected so far.
func (s *Scanner) locate(body []byte) (string, bool) {
	z := html.NewTokenizer(bytes.NewReader(body))
	depth := 0
	var sb strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			// EOF or malformed tail; tolerate a truncated end marker.
			if depth > 0 {
				return sb.String(), true
			}
			return "", false
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tagName := string(name)
			if depth > 0 {
				if tagName == s.tag {
					depth++
				}
				continue
			}
			if tagName == s.tag && hasAttr && s.matchClass(z) {
				depth = 1
			}
		case html.TextToken:
			if depth > 0 {
				sb.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if depth > 0 && string(name) == s.tag {
				depth--
				if depth == 0 {
					return sb.String(), true
				}
			}
		}
	}
}

// matchClass consumes the current tag's attributes and reports whether the
// class attribute contains the scanner's class as a whole token.
func (s *Scanner) matchClass(z *html.Tokenizer) bool {
	match := false
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			for _, field := range strings.Fields(string(val)) {
				if field == s.class {
					match = true
				}
			}
		}
		if !more {
			break
		}
	}
	return match
}
