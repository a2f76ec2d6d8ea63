package queue

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/dukaan/pkg/logger"
)

// failedCol is the optional MongoDB collection for persisting failed
// jobs. Nil means in-memory only.
var failedCol *mongo.Collection

// UseDB persists exhausted jobs to the failed_jobs collection so they
// survive restarts and can be inspected or replayed by hand.
func UseDB(db *mongo.Database) {
	failedCol = db.Collection("failed_jobs")
}

func (m *manager) persistFailed(typeName, payload string, lastErr error, attempts int) {
	record := FailedJob{
		Type:     typeName,
		Payload:  payload,
		Err:      lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.failed = append(m.failed, record)
	m.mu.Unlock()

	if failedCol == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := failedCol.InsertOne(ctx, record); err != nil {
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}
