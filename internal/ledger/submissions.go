package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GopiHariraj/networthauat/internal/ingest"
)

// StartSubmission opens a RUNNING submission record for one ingestion
// call.
func (s *Store) StartSubmission(ctx context.Context, source ingest.Source) (string, error) {
	row := Submission{
		ID:        uuid.NewString(),
		Source:    string(source),
		Status:    "RUNNING",
		StartedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert submission: %w", err)
	}
	return row.ID, nil
}

// FinishSubmission records the terminal status of a submission. Best
// effort: a failed update is logged, not propagated, so audit problems
// never mask the submission's own outcome.
func (s *Store) FinishSubmission(ctx context.Context, id string, status ingest.SubmissionStatus, message string) {
	now := time.Now()
	err := s.db.WithContext(ctx).Model(&Submission{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      string(status),
		"message":     message,
		"finished_at": &now,
	}).Error
	if err != nil {
		s.log.Error().Err(err).Str("submission_id", id).Msg("finishing submission record failed")
	}
}
