// Package feedback turns a user's verdict on the current prediction into a
// stored record and a fresh accuracy report.
package feedback

import (
	"context"
	"fmt"
	"time"

	"diabetescheck/accuracy"
	"diabetescheck/db"
	"diabetescheck/session"

	"go.uber.org/zap"
)

// Listener is told about every saved record.
type Listener interface {
	FeedbackRecorded(rec db.Record, report accuracy.Report)
}

// Recorder turns a verdict on a session's prediction into a stored record
// and an updated accuracy report.
type Recorder struct {
	sessions   *session.Store
	repo       db.Repository
	aggregator *accuracy.Aggregator
	listeners  []Listener
	logger     *zap.Logger
	now        func() time.Time
}

// NewRecorder returns a Recorder saving to repo. Listeners are called in
// order after each successful save.
func NewRecorder(sessions *session.Store, repo db.Repository, logger *zap.Logger, listeners ...Listener) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		sessions:   sessions,
		repo:       repo,
		aggregator: accuracy.NewAggregator(repo),
		listeners:  listeners,
		logger:     logger,
		now:        time.Now,
	}
}

// Record stores the verdict for the session's current prediction. It fails
// with session.ErrNoPrediction before any prediction and with
// session.ErrFeedbackRecorded on a second verdict for the same prediction.
func (r *Recorder) Record(ctx context.Context, sessionID string, correct bool) (db.Record, accuracy.Report, error) {
	sess, err := r.sessions.MarkFeedback(sessionID)
	if err != nil {
		return db.Record{}, accuracy.Report{}, err
	}

	rec := db.Record{
		Patient:           *sess.Patient,
		Predicted:         sess.Outcome.Label,
		CorrectPrediction: correct,
		CreatedAt:         r.now().UTC(),
	}
	if err := r.repo.SavePrediction(ctx, &rec); err != nil {
		r.sessions.UnmarkFeedback(sessionID)
		return db.Record{}, accuracy.Report{}, fmt.Errorf("save feedback: %w", err)
	}
	r.logger.Info("feedback saved",
		zap.String("session", sessionID),
		zap.Int64("record", rec.ID),
		zap.Int("predicted", rec.Predicted),
		zap.Bool("correct", correct))

	report, err := r.aggregator.Report(ctx)
	if err != nil {
		// the record is durable; only the derived report is missing
		return rec, accuracy.Report{}, err
	}
	for _, l := range r.listeners {
		l.FeedbackRecorded(rec, report)
	}
	return rec, report, nil
}

// Report computes accuracy over everything stored so far.
func (r *Recorder) Report(ctx context.Context) (accuracy.Report, error) {
	return r.aggregator.Report(ctx)
}

// Records returns every stored record in the order it was given.
func (r *Recorder) Records(ctx context.Context) ([]db.Record, error) {
	return r.repo.AllPredictions(ctx)
}
