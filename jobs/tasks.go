package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOrphanScan is the task type for the override orphan scan.
	TaskOrphanScan = "acl:orphan_scan"
)

// OrphanScanPayload configures a single orphan scan run.
type OrphanScanPayload struct {
	// BatchSize bounds how many keys one SCAN iteration requests.
	BatchSize int64 `json:"batch_size,omitempty"`
}

// NewOrphanScanTask constructs an Asynq task for the orphan scan.
func NewOrphanScanTask(payload OrphanScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrphanScan, data), nil
}
