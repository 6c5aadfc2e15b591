// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/w3c/prbuildbot/internal/comment"
	"github.com/w3c/prbuildbot/internal/domain/model"
	"github.com/w3c/prbuildbot/internal/domain/port/driven"
	"github.com/w3c/prbuildbot/internal/logparse"
)

// SyncService synchronizes one pull request's bot comment with the results
// of a finished CI build: fetch per-job logs, extract the interesting lines,
// merge them into the sections of the existing bot comment (if any), and
// publish the result. One invocation processes one build end to end; there
// is no cross-run state beyond the comment itself, so two racing deliveries
// for the same PR resolve last-publish-wins.
type SyncService struct {
	logs       driven.LogSource
	comments   driven.CommentStore
	deliveries driven.DeliveryStore
	extractor  *logparse.Extractor
	org        string
	repo       string
	botLogin   string
	maxLen     int
}

// NewSyncService creates a SyncService with all required dependencies.
// deliveries may be nil, in which case no audit rows are written.
func NewSyncService(
	logs driven.LogSource,
	comments driven.CommentStore,
	deliveries driven.DeliveryStore,
	extractor *logparse.Extractor,
	org string,
	repo string,
	botLogin string,
	maxCommentLength int,
) *SyncService {
	return &SyncService{
		logs:       logs,
		comments:   comments,
		deliveries: deliveries,
		extractor:  extractor,
		org:        org,
		repo:       repo,
		botLogin:   botLogin,
		maxLen:     maxCommentLength,
	}
}

// HandleBuild processes one verified build payload end to end. Collaborator
// failures abort the run and surface to the caller wrapped; nothing is
// retried here.
func (s *SyncService) HandleBuild(ctx context.Context, payload *model.BuildPayload) error {
	if !payload.IsPullRequest() {
		slog.Info("ignoring non pull request build", "build_id", payload.ID, "type", payload.Type)
		s.record(ctx, payload, model.DeliverySkipped, "not a pull request build")
		return nil
	}

	prNumber := payload.PullRequestNumber

	jobLogs, err := s.fetchJobLogs(ctx, payload)
	if err != nil {
		s.record(ctx, payload, model.DeliveryFailed, err.Error())
		return err
	}
	if len(jobLogs) == 0 {
		slog.Info("no jobs with a product in build matrix", "build_id", payload.ID, "pr", prNumber)
		s.record(ctx, payload, model.DeliverySkipped, "no jobs with a product")
		return nil
	}

	records := s.extractor.Extract(jobLogs)
	for i := range records {
		records[i].LogURL = s.logs.JobURL(s.org, s.repo, records[i].JobID)
	}

	existing, err := s.findBotComment(ctx, prNumber)
	if err != nil {
		s.record(ctx, payload, model.DeliveryFailed, err.Error())
		return err
	}

	var sections []model.Section
	if existing != nil {
		sections, err = comment.Parse(existing.Body)
		if err != nil {
			// A body we cannot parse is treated as no existing bot
			// comment; refusing to update would leave the bot
			// permanently stuck on its own malformed output.
			slog.Warn("existing comment not parseable, starting fresh",
				"comment_id", existing.ID, "error", err)
			existing = nil
			sections = nil
		}
	}

	merged := comment.Merge(sections, records)
	body := comment.Truncate(comment.Serialize(merged), s.maxLen)

	if existing != nil {
		err = s.comments.UpdateComment(ctx, existing.ID, body)
	} else {
		err = s.comments.CreateComment(ctx, prNumber, body)
	}
	if err != nil {
		err = fmt.Errorf("publishing comment for PR %d: %w", prNumber, err)
		s.record(ctx, payload, model.DeliveryFailed, err.Error())
		return err
	}

	slog.Info("comment synchronized",
		"pr", prNumber,
		"build_id", payload.ID,
		"records", len(records),
		"sections", len(merged),
		"created", existing == nil,
	)
	s.record(ctx, payload, model.DeliveryCommented,
		fmt.Sprintf("%d records merged into %d sections", len(records), len(merged)))
	return nil
}

// fetchJobLogs retrieves the raw log for every matrix job that declares a
// product, in matrix order.
func (s *SyncService) fetchJobLogs(ctx context.Context, payload *model.BuildPayload) ([]logparse.JobLog, error) {
	var jobLogs []logparse.JobLog
	for _, job := range payload.Matrix {
		product, ok := job.Product()
		if !ok {
			continue
		}

		raw, err := s.logs.FetchBuildLog(ctx, job.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching log for job %d: %w", job.ID, err)
		}
		jobLogs = append(jobLogs, logparse.JobLog{JobID: job.ID, Title: product, Raw: raw})
	}
	return jobLogs, nil
}

// findBotComment returns the bot's own marker-bearing comment on the PR, or
// nil when there is none. Comments by other users, and the bot's comments
// that do not begin with the marker, are never reused as a merge basis.
func (s *SyncService) findBotComment(ctx context.Context, prNumber int) (*model.Comment, error) {
	comments, err := s.comments.ListComments(ctx, prNumber)
	if err != nil {
		return nil, fmt.Errorf("listing comments for PR %d: %w", prNumber, err)
	}

	for _, c := range comments {
		if c.Author != s.botLogin {
			continue
		}
		first, _, _ := strings.Cut(strings.TrimSpace(c.Body), "\n")
		if first == comment.Marker {
			return &c, nil
		}
	}
	return nil, nil
}

// record writes the delivery audit row. Failures are logged, never fatal:
// the audit log must not be able to break commenting.
func (s *SyncService) record(ctx context.Context, payload *model.BuildPayload, status model.DeliveryStatus, detail string) {
	if s.deliveries == nil {
		return
	}

	d := model.Delivery{
		BuildID:    payload.ID,
		PRNumber:   payload.PullRequestNumber,
		Status:     status,
		Detail:     detail,
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.deliveries.Record(ctx, d); err != nil {
		slog.Warn("recording delivery failed", "build_id", payload.ID, "error", err)
	}
}
