package comment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/w3c/prbuildbot/internal/domain/model"
)

// Merge reconciles the sections of an existing comment with freshly
// extracted log records. Sections whose title matches a record have their
// body replaced in place; records without a matching section are appended as
// new sections in record order; every other section survives untouched and
// in position, which is what keeps human-written prose intact across runs.
// Duplicate record titles within one run resolve last-write-wins.
func Merge(existing []model.Section, records []model.LogRecord) []model.Section {
	sections := existing
	byTitle := make(map[model.SectionTitle]int, len(sections))
	for i, s := range sections {
		if s.Title.Named {
			byTitle[s.Title] = i
		}
	}

	for _, rec := range records {
		title := model.NamedTitle(rec.Title)
		if i, ok := byTitle[title]; ok {
			sections[i].BodyLines = formatBody(rec)
			continue
		}
		sections = append(sections, model.Section{Title: title, BodyLines: formatBody(rec)})
		byTitle[title] = len(sections) - 1
	}

	return sections
}

// formatBody renders a record as section body lines: a markdown heading, a
// blank line, the extracted text, a blank line, and an optional deep link to
// the full job log.
func formatBody(rec model.LogRecord) []string {
	lines := []string{FormatCommentTitle(rec.Title), ""}
	lines = append(lines, strings.Split(rec.Text, "\n")...)
	lines = append(lines, "")
	if rec.LogURL != "" {
		lines = append(lines, fmt.Sprintf("[Job log](%s)", rec.LogURL), "")
	}
	return lines
}

// FormatCommentTitle produces the markdown heading for a product identifier.
// The part before the colon is title-cased; the part after, when present,
// renders as a channel suffix: "chrome:dev" becomes "# Chrome (dev channel) #".
func FormatCommentTitle(product string) string {
	parts := strings.SplitN(product, ":", 2)
	title := titleCase(parts[0])
	if len(parts) > 1 {
		title += fmt.Sprintf(" (%s channel)", parts[1])
	}
	return fmt.Sprintf("# %s #", title)
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, where a word starts after any non-letter.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
