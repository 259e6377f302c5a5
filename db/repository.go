// Package db persists feedback records, one per confirmed or rejected
// prediction, in the order they were given.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diabetescheck/patient"
)

const (
	DriverSQLite = "sqlite"
	DriverJSON   = "json"
)

var ErrClosed = errors.New("repository closed")

// Record is a patient's inputs, the predicted outcome and whether the user
// confirmed it.
type Record struct {
	ID int64 `json:"id"`
	patient.Patient
	Predicted         int       `json:"Diabético"`
	CorrectPrediction bool      `json:"CorrectPrediction"`
	CreatedAt         time.Time `json:"created_at"`
}

// Repository is append-only storage for feedback records.
type Repository interface {
	// SavePrediction appends rec and sets rec.ID to its sequence number.
	SavePrediction(ctx context.Context, rec *Record) error
	// AllPredictions returns every record in storage order.
	AllPredictions(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

func Open(driver, path string) (Repository, error) {
	switch driver {
	case DriverSQLite, "":
		repo, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DriverJSON:
		repo, err := OpenJSON(path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
