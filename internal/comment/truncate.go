package comment

import "fmt"

// Truncate enforces the comment store's maximum body length. Bodies within
// the limit pass through unchanged. Oversized bodies get a notice naming the
// original size and the limit prepended, and the concatenation is hard-cut
// to exactly max characters; no attempt is made to cut on a line or section
// boundary.
func Truncate(body string, max int) string {
	if len(body) <= max {
		return body
	}

	notice := fmt.Sprintf(
		"**Warning**: this comment was %d characters long and has been truncated to %d.\n\n",
		len(body), max,
	)
	return (notice + body)[:max]
}
