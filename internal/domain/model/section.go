// Package model contains the domain types shared across the application.
package model

import "strings"

// SectionTitle identifies a bot-managed section within a comment. The zero
// value is anonymous: free-form prose the bot does not own. An anonymous
// title never matches a log record during merge, which keeps "no title" and
// "an actually-empty title" unambiguous.
type SectionTitle struct {
	Value string
	Named bool
}

// NamedTitle returns a SectionTitle owning the given name.
func NamedTitle(value string) SectionTitle {
	return SectionTitle{Value: value, Named: true}
}

// Section is a contiguous run of comment text, optionally named. Named
// sections are bot-managed and addressable by title; anonymous sections hold
// prose the bot must never touch.
type Section struct {
	Title     SectionTitle
	BodyLines []string
}

// Empty reports whether the section carries no information: anonymous and
// without body lines. Empty sections are dropped during parsing and never
// serialized.
func (s Section) Empty() bool {
	return !s.Title.Named && len(s.BodyLines) == 0
}

// Body returns the section body as a single newline-joined string.
func (s Section) Body() string {
	return strings.Join(s.BodyLines, "\n")
}

// Append adds one line to the section body.
func (s *Section) Append(line string) {
	s.BodyLines = append(s.BodyLines, line)
}
