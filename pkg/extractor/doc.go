// Package extractor pulls the embedded, HTML-escaped payload out of a
// fetched page.
//
// The extraction is a two-step locate-then-slice over the token stream
// rather than a single greedy pattern match: first find the start tag by
// tag name and class attribute, then collect text until the matching end
// tag (or end of input, for truncated bodies). Entity unescaping happens
// during tokenization.
package extractor
