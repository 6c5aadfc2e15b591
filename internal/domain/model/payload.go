package model

import (
	"encoding/json"
	"strings"
)

// BuildTypePullRequest is the payload type for builds triggered by a pull
// request. Builds of any other type are skipped.
const BuildTypePullRequest = "pull_request"

// BuildPayload is the verified body of a Travis CI build-completion webhook.
// Only the fields the bot consumes are mapped.
type BuildPayload struct {
	ID                int64      `json:"id"`
	Number            string     `json:"number"`
	Type              string     `json:"type"`
	State             string     `json:"state"`
	StatusMessage     string     `json:"status_message"`
	PullRequestNumber int        `json:"pull_request_number"`
	Matrix            []BuildJob `json:"matrix"`
}

// IsPullRequest reports whether the build was triggered by a pull request.
func (p *BuildPayload) IsPullRequest() bool {
	return p.Type == BuildTypePullRequest
}

// BuildJob is a single job within a build matrix.
type BuildJob struct {
	ID     int64     `json:"id"`
	State  string    `json:"state"`
	Config JobConfig `json:"config"`
}

// Product returns the value of the job's PRODUCT environment entry, or
// ok=false when the job declares none. Jobs without a product do not feed
// any comment section.
func (j BuildJob) Product() (string, bool) {
	for _, entry := range j.Config.Env {
		if strings.HasPrefix(entry, "PRODUCT=") {
			return strings.TrimPrefix(entry, "PRODUCT="), true
		}
	}
	return "", false
}

// JobConfig carries the job's environment entries, e.g. "PRODUCT=firefox".
type JobConfig struct {
	Env EnvList `json:"env"`
}

// EnvList is a job env declaration. Travis serializes it as either a single
// string or a list of strings depending on how the .travis.yml was written,
// so both forms are accepted.
type EnvList []string

// UnmarshalJSON accepts a JSON string, a JSON array of strings, or null.
func (e *EnvList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = EnvList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*e = EnvList(many)
	return nil
}
