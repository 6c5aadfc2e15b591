package model

// LogRecord is one unit of extracted log content, destined for the comment
// section whose title matches Title.
type LogRecord struct {
	JobID int64
	// Title is the raw product identifier from the job environment,
	// e.g. "firefox" or "chrome:dev". It is the merge key against
	// Section.Title.
	Title  string
	Text   string
	LogURL string // Empty when no deep link is available.
}
