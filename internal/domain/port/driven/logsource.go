package driven

import "context"

// LogSource is the driven port for fetching raw CI build logs.
type LogSource interface {
	// FetchBuildLog returns the full raw log text for the given job.
	FetchBuildLog(ctx context.Context, jobID int64) (string, error)

	// JobURL returns a deep link to the job's log page. Pure; no I/O.
	JobURL(org, repo string, jobID int64) string
}
