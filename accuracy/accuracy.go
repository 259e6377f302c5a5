// Package accuracy turns stored feedback into cumulative and running
// accuracy figures.
package accuracy

import (
	"context"
	"fmt"
	"math"

	"diabetescheck/db"

	"github.com/montanaflynn/stats"
)

// Places is the number of decimals reported.
const Places = 2

// Report summarises all feedback received so far.
type Report struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	// History starts at 0 and holds the running accuracy after each record.
	History []float64 `json:"history"`
	// Delta is the change caused by the most recent record.
	Delta float64 `json:"delta"`
}

// Compute replays records in storage order.
func Compute(records []db.Record) Report {
	report := Report{History: make([]float64, 0, len(records)+1)}
	report.History = append(report.History, 0)

	for i, rec := range records {
		total := i + 1
		if rec.CorrectPrediction {
			report.Correct++
		}
		report.History = append(report.History, round(float64(report.Correct)/float64(total)))
	}
	report.Total = len(records)
	if report.Total > 0 {
		report.Accuracy = round(meanCorrect(records))
		n := len(report.History)
		report.Delta = round(report.History[n-1] - report.History[n-2])
	}
	return report
}

// round rounds half to even, so 0.125 becomes 0.12 and 0.375 becomes 0.38.
func round(v float64) float64 {
	scale := math.Pow10(Places)
	return math.RoundToEven(v*scale) / scale
}

func meanCorrect(records []db.Record) float64 {
	hits := make(stats.Float64Data, len(records))
	for i, rec := range records {
		if rec.CorrectPrediction {
			hits[i] = 1
		}
	}
	m, err := hits.Mean()
	if err != nil {
		return 0
	}
	return m
}

// Source is the part of a repository the aggregator reads.
type Source interface {
	AllPredictions(ctx context.Context) ([]db.Record, error)
}

// Aggregator computes reports from everything a Source has stored.
type Aggregator struct {
	source Source
}

// NewAggregator returns an Aggregator reading from source.
func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Report loads all records and replays them through Compute.
func (a *Aggregator) Report(ctx context.Context) (Report, error) {
	records, err := a.source.AllPredictions(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load predictions: %w", err)
	}
	return Compute(records), nil
}
