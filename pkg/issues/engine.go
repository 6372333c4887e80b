// Package issues applies lifecycle transitions to persisted issue records.
// Every transition is a single conditional mutation against the record
// store: create is insert-only (a duplicate is a silent no-op), while
// close, reopen and record-reply require the record to exist and surface a
// reportable error when it does not.
package issues

import (
	"errors"
	"fmt"

	"keepnote/pkg/logger"
	"keepnote/pkg/models"
	"keepnote/pkg/store"
)

// CreateParams carries the fields of the thread-creating message.
type CreateParams struct {
	ChannelID string
	ThreadID  string
	UserID    string
	Text      string
	CreatedAt int64
}

// Create inserts a new open issue for a thread. The first message always
// creates, so an existing record means the event was already handled and
// the conflict is swallowed rather than propagated.
func Create(p CreateParams) error {
	iss := models.Issue{
		PK:                models.IssueKey(p.ChannelID, p.ThreadID),
		ChannelID:         p.ChannelID,
		ThreadID:          p.ThreadID,
		UserID:            p.UserID,
		Text:              p.Text,
		Status:            models.StatusOpen,
		CreatedAt:         p.CreatedAt,
		LastMessageID:     p.ThreadID,
		LastMessageAt:     p.CreatedAt,
		LastMessageUserID: p.UserID,
	}
	if err := store.InsertIssue(iss); err != nil {
		if errors.Is(err, store.ErrExists) {
			logger.Debug("issue_create_conflict", "pk", iss.PK)
			return nil
		}
		return fmt.Errorf("create issue %s: %w", iss.PK, err)
	}
	logger.Info("issue_created", "pk", iss.PK, "user", p.UserID)
	return nil
}

// Close marks an existing issue closed, recording who closed it and when.
func Close(channelID, threadID, agentID string, closedAt int64) error {
	pk := models.IssueKey(channelID, threadID)
	if err := store.UpdateIssue(pk, func(iss *models.Issue) {
		iss.Status = models.StatusClosed
		iss.ClosedBy = agentID
		iss.ClosedAt = closedAt
	}); err != nil {
		return fmt.Errorf("close issue %s: %w", pk, err)
	}
	logger.Info("issue_closed", "pk", pk, "agent", agentID)
	return nil
}

// Reopen restores an existing issue to open and clears the closed fields.
// Reopening an already-open issue is a valid no-op mutation.
func Reopen(channelID, threadID string) error {
	pk := models.IssueKey(channelID, threadID)
	if err := store.UpdateIssue(pk, func(iss *models.Issue) {
		iss.Status = models.StatusOpen
		iss.ClosedBy = ""
		iss.ClosedAt = 0
	}); err != nil {
		return fmt.Errorf("reopen issue %s: %w", pk, err)
	}
	logger.Info("issue_reopened", "pk", pk)
	return nil
}

// RecordReply overwrites the last-activity pointer of an existing issue
// with the replying message.
func RecordReply(channelID, threadID, messageID string, at int64, userID string) error {
	pk := models.IssueKey(channelID, threadID)
	if err := store.UpdateIssue(pk, func(iss *models.Issue) {
		iss.LastMessageID = messageID
		iss.LastMessageAt = at
		iss.LastMessageUserID = userID
	}); err != nil {
		return fmt.Errorf("record reply on issue %s: %w", pk, err)
	}
	logger.Debug("issue_reply_recorded", "pk", pk, "message", messageID)
	return nil
}

// ListOpen returns all open issues ordered by last activity.
func ListOpen() ([]models.Issue, error) {
	return store.ListIssuesByStatus(models.StatusOpen)
}
