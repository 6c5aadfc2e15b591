package comment

import (
	"fmt"
	"strings"

	"github.com/w3c/prbuildbot/internal/domain/model"
)

// Serialize renders sections back into a comment body. It is total: any
// section list yields a valid bot comment beginning with the marker line.
// Titled sections are wrapped in start/end markers with the title escaped;
// anonymous sections are emitted verbatim with no wrapping. For any list
// produced by Parse, Parse(Serialize(sections)) equals the input.
func Serialize(sections []model.Section) string {
	body := []string{Marker}

	for _, s := range sections {
		if s.Title.Named {
			body = append(body, fmt.Sprintf(sectionStartFormat, EscapeTitle(s.Title.Value)))
			body = append(body, s.BodyLines...)
			body = append(body, sectionEnd)
		} else {
			body = append(body, s.BodyLines...)
		}
	}

	return strings.Join(body, "\n")
}
