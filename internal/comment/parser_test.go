package comment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w3c/prbuildbot/internal/comment"
	"github.com/w3c/prbuildbot/internal/domain/model"
)

func TestParse_MissingMarker(t *testing.T) {
	sections, err := comment.Parse("Just some comment a human wrote.")

	assert.Nil(t, sections)
	require.ErrorIs(t, err, comment.ErrNoMarker)
}

func TestParse_EmptyBody(t *testing.T) {
	sections, err := comment.Parse("")

	assert.Nil(t, sections)
	require.ErrorIs(t, err, comment.ErrNoMarker)
}

func TestParse_MarkerOnly(t *testing.T) {
	sections, err := comment.Parse("<!--PRBUILDBOT:COMMENT-->")

	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestParse_UnscopedTextBecomesAnonymousSection(t *testing.T) {
	body := "<!--PRBUILDBOT:COMMENT-->\nHello\nWorld"

	sections, err := comment.Parse(body)

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.False(t, sections[0].Title.Named)
	assert.Equal(t, []string{"Hello", "World"}, sections[0].BodyLines)
}

func TestParse_MixedSections(t *testing.T) {
	body := strings.Join([]string{
		"<!--PRBUILDBOT:COMMENT-->",
		"Before",
		"<!--PRBUILDBOT:START:firefox-->",
		"old",
		"<!--PRBUILDBOT:END-->",
		"After",
	}, "\n")

	sections, err := comment.Parse(body)

	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, model.Section{BodyLines: []string{"Before"}}, sections[0])
	assert.Equal(t, model.NamedTitle("firefox"), sections[1].Title)
	assert.Equal(t, []string{"old"}, sections[1].BodyLines)
	assert.Equal(t, model.Section{BodyLines: []string{"After"}}, sections[2])
}

func TestParse_StartMarkerInsideSectionIsBodyText(t *testing.T) {
	body := strings.Join([]string{
		"<!--PRBUILDBOT:COMMENT-->",
		"<!--PRBUILDBOT:START:firefox-->",
		"<!--PRBUILDBOT:START:chrome-->",
		"still firefox",
		"<!--PRBUILDBOT:END-->",
	}, "\n")

	sections, err := comment.Parse(body)

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, model.NamedTitle("firefox"), sections[0].Title)
	assert.Equal(t, []string{"<!--PRBUILDBOT:START:chrome-->", "still firefox"}, sections[0].BodyLines)
}

func TestParse_EmbeddedEndMarkerDoesNotCloseSection(t *testing.T) {
	body := strings.Join([]string{
		"<!--PRBUILDBOT:COMMENT-->",
		"<!--PRBUILDBOT:START:firefox-->",
		"mentions <!--PRBUILDBOT:END--> mid-line",
		"<!--PRBUILDBOT:END-->",
	}, "\n")

	sections, err := comment.Parse(body)

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"mentions <!--PRBUILDBOT:END--> mid-line"}, sections[0].BodyLines)
}

func TestParse_UnterminatedSectionIsEmitted(t *testing.T) {
	body := strings.Join([]string{
		"<!--PRBUILDBOT:COMMENT-->",
		"<!--PRBUILDBOT:START:firefox-->",
		"dangling",
	}, "\n")

	sections, err := comment.Parse(body)

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, model.NamedTitle("firefox"), sections[0].Title)
	assert.Equal(t, []string{"dangling"}, sections[0].BodyLines)
}

func TestParse_TitledSectionWithNoBodySurvives(t *testing.T) {
	body := strings.Join([]string{
		"<!--PRBUILDBOT:COMMENT-->",
		"<!--PRBUILDBOT:START:firefox-->",
		"<!--PRBUILDBOT:END-->",
	}, "\n")

	sections, err := comment.Parse(body)

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, model.NamedTitle("firefox"), sections[0].Title)
	assert.Empty(t, sections[0].BodyLines)
}

func TestParse_EscapedDashInTitle(t *testing.T) {
	body := strings.Join([]string{
		"<!--PRBUILDBOT:COMMENT-->",
		`<!--PRBUILDBOT:START:first\2dsection-->`,
		"content",
		"<!--PRBUILDBOT:END-->",
	}, "\n")

	sections, err := comment.Parse(body)

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, model.NamedTitle("first-section"), sections[0].Title)
}

func TestSerialize_EmptyList(t *testing.T) {
	assert.Equal(t, "<!--PRBUILDBOT:COMMENT-->", comment.Serialize(nil))
}

func TestSerialize_TitleWithDashIsEscaped(t *testing.T) {
	sections := []model.Section{
		{Title: model.NamedTitle("first-section"), BodyLines: []string{"content"}},
	}

	body := comment.Serialize(sections)

	assert.Contains(t, body, `<!--PRBUILDBOT:START:first\2dsection-->`)
	assert.NotContains(t, body, "<!--PRBUILDBOT:START:first-section-->")
}

func TestEscapeTitle_RoundTrip(t *testing.T) {
	for _, title := range []string{"first-section", "plain", "a-b-c", "", "chrome:dev"} {
		assert.Equal(t, title, comment.UnescapeTitle(comment.EscapeTitle(title)), "title %q", title)
	}
}

// TestParse_RoundTrip verifies the core grammar law: serializing parsed
// sections and parsing them again reproduces the same sections,
// field-for-field.
func TestParse_RoundTrip(t *testing.T) {
	bodies := []string{
		"<!--PRBUILDBOT:COMMENT-->",
		"<!--PRBUILDBOT:COMMENT-->\nfree prose only",
		strings.Join([]string{
			"<!--PRBUILDBOT:COMMENT-->",
			"Before",
			"",
			`<!--PRBUILDBOT:START:servo\2dnightly-->`,
			"# Servo #",
			"",
			"results",
			"",
			"<!--PRBUILDBOT:END-->",
			"Between",
			"<!--PRBUILDBOT:START:chrome:dev-->",
			"chrome results",
			"<!--PRBUILDBOT:END-->",
			"After",
		}, "\n"),
	}

	for _, body := range bodies {
		sections, err := comment.Parse(body)
		require.NoError(t, err)

		serialized := comment.Serialize(sections)
		reparsed, err := comment.Parse(serialized)
		require.NoError(t, err)

		assert.Equal(t, sections, reparsed, "round trip for %q", body)
	}
}
