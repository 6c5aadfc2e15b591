package comment

import (
	"errors"
	"strings"

	"github.com/w3c/prbuildbot/internal/domain/model"
)

// ErrNoMarker is returned by Parse when the body's first line is not the bot
// comment marker. Callers treat it as "no existing bot comment", never as
// fatal.
var ErrNoMarker = errors.New("comment does not begin with the bot marker")

// parser is a two-state line machine. Outside a section, lines accumulate
// into an anonymous section until an exact start-marker line opens a named
// one; inside, every line is body text until an exact end-marker line closes
// it. The machine never nests: a start marker seen in-section is ordinary
// body text.
type parser struct {
	sections  []model.Section
	current   model.Section
	inSection bool
}

// Parse splits a bot comment body into its ordered sections. It fails only
// when the first line is not the comment marker; everything after that is
// parsed leniently, including stray markers, end-marker text embedded
// mid-line, and an unterminated trailing section.
func Parse(body string) ([]model.Section, error) {
	lines := strings.Split(body, "\n")
	if lines[0] != Marker {
		return nil, ErrNoMarker
	}

	p := &parser{sections: []model.Section{}}
	for _, line := range lines[1:] {
		if p.inSection {
			p.inSectionLine(line)
		} else {
			p.outsideSectionLine(line)
		}
	}
	p.finishSection()

	return p.sections, nil
}

func (p *parser) outsideSectionLine(line string) {
	m := sectionStartRe.FindStringSubmatch(line)
	if m == nil {
		p.current.Append(line)
		return
	}

	p.finishSection()
	p.current.Title = model.NamedTitle(UnescapeTitle(m[1]))
	p.inSection = true
}

func (p *parser) inSectionLine(line string) {
	if line != sectionEnd {
		p.current.Append(line)
		return
	}

	p.finishSection()
	p.inSection = false
}

// finishSection emits the in-progress section unless it is empty, then
// starts a fresh one.
func (p *parser) finishSection() {
	if !p.current.Empty() {
		p.sections = append(p.sections, p.current)
	}
	p.current = model.Section{}
}
