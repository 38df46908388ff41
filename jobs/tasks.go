package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/lyceumd/lyceumd/internal/directory"
	"github.com/lyceumd/lyceumd/internal/roles"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDirectoryIntegrity is the task type for the directory
	// integrity scan.
	TaskDirectoryIntegrity = "directory:integrity"
)

// DirectoryIntegrityPayload scopes an integrity scan. An empty school scans
// the whole directory.
type DirectoryIntegrityPayload struct {
	School string `json:"school"`
}

// NewDirectoryIntegrityTask constructs an Asynq task.
func NewDirectoryIntegrityTask(payload DirectoryIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDirectoryIntegrity, data), nil
}

// NewDirectoryIntegrityHandler returns the handler for integrity scans.
// Accounts whose stored role is not part of the hierarchy fail closed on
// every authorization path, so they are worth surfacing to the operator.
func NewDirectoryIntegrityHandler(dir directory.Reader, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload DirectoryIntegrityPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		records, err := dir.List(ctx, payload.School)
		if err != nil {
			return err
		}

		unranked := 0
		for _, record := range records {
			if record.Role == roles.ExamUser {
				logger.Warn("examuser role stored in directory",
					slog.String("user", record.User))
				unranked++
				continue
			}
			if roles.Rank(record.Role) > roles.Rank(roles.GlobalAdministrator) {
				logger.Warn("account with unranked role",
					slog.String("user", record.User),
					slog.String("role", string(record.Role)))
				unranked++
			}
		}
		logger.Info("directory integrity scan finished",
			slog.String("school", payload.School),
			slog.Int("accounts", len(records)),
			slog.Int("unranked", unranked))
		return nil
	}
}
