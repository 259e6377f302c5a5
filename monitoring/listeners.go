package monitoring

import (
	"diabetescheck/accuracy"
	"diabetescheck/db"

	"go.uber.org/zap"
)

func (m *Metrics) FeedbackRecorded(rec db.Record, report accuracy.Report) {
	m.ObserveFeedback(rec.CorrectPrediction, report.Accuracy)
}

func (h *Hub) FeedbackRecorded(_ db.Record, report accuracy.Report) {
	if err := h.Publish(AccuracyUpdate, report); err != nil {
		h.logger.Warn("publish accuracy update", zap.Error(err))
	}
}
