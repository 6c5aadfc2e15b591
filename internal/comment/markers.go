// Package comment implements the sectioned bot-comment grammar: a
// line-oriented format that lets the bot address and rewrite named spans of
// a pull request comment without disturbing the surrounding text, whether
// that text was written by a human or by an earlier run of the bot.
package comment

import (
	"regexp"
	"strings"
)

// Marker is the literal first line of every bot-managed comment. A comment
// whose body does not begin with it belongs to someone else.
const Marker = "<!--PRBUILDBOT:COMMENT-->"

const (
	sectionStartFormat = "<!--PRBUILDBOT:START:%s-->"
	sectionEnd         = "<!--PRBUILDBOT:END-->"
)

// A start marker captures any run of characters free of literal dashes, so
// dashes inside titles travel as the \2d escape token. Only an exact
// full-line match opens a section.
var sectionStartRe = regexp.MustCompile(`^<!--PRBUILDBOT:START:([^-]*)-->$`)

// EscapeTitle encodes a section title for embedding in a start marker,
// replacing every dash with the \2d token.
func EscapeTitle(title string) string {
	return strings.ReplaceAll(title, "-", `\2d`)
}

// UnescapeTitle is the inverse of EscapeTitle. A literal \2d already present
// in the original title is indistinguishable from an encoded dash; both
// decode to a dash.
func UnescapeTitle(title string) string {
	return strings.ReplaceAll(title, `\2d`, "-")
}
