package driven

import (
	"context"

	"github.com/w3c/prbuildbot/internal/domain/model"
)

// CommentStore is the driven port for reading and publishing pull request
// comments.
type CommentStore interface {
	// CurrentUser returns the authenticated bot login. The driver uses it
	// to recognize the bot's own comment among a PR's comments.
	CurrentUser(ctx context.Context) (string, error)

	// ListComments returns all comments on the pull request, oldest first.
	ListComments(ctx context.Context, prNumber int) ([]model.Comment, error)

	// CreateComment posts a new comment on the pull request.
	CreateComment(ctx context.Context, prNumber int, body string) error

	// UpdateComment replaces the body of an existing comment.
	UpdateComment(ctx context.Context, commentID int64, body string) error
}
