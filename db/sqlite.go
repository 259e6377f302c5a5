package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS feedback (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    pregnancies INTEGER NOT NULL,
    glucose INTEGER NOT NULL,
    blood_pressure INTEGER NOT NULL,
    skin_thickness INTEGER NOT NULL,
    insulin INTEGER NOT NULL,
    bmi REAL NOT NULL,
    diabetes_pedigree REAL NOT NULL,
    age INTEGER NOT NULL,
    predicted_label INTEGER NOT NULL,
    correct_prediction INTEGER NOT NULL,
    created_at DATETIME NOT NULL
);
`

type SQLiteRepository struct {
	database *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}
	database.SetMaxOpenConns(1)

	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRepository{database: database}, nil
}

func (r *SQLiteRepository) SavePrediction(ctx context.Context, rec *Record) error {
	if r.database == nil {
		return ErrClosed
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := r.database.ExecContext(ctx, `
        INSERT INTO feedback (
            pregnancies, glucose, blood_pressure, skin_thickness, insulin,
            bmi, diabetes_pedigree, age, predicted_label, correct_prediction, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Pregnancies,
		rec.Glucose,
		rec.BloodPressure,
		rec.SkinThickness,
		rec.Insulin,
		rec.BMI,
		rec.DiabetesPedigreeFunction,
		rec.Age,
		rec.Predicted,
		rec.CorrectPrediction,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

func (r *SQLiteRepository) AllPredictions(ctx context.Context) ([]Record, error) {
	if r.database == nil {
		return nil, ErrClosed
	}
	rows, err := r.database.QueryContext(ctx, `
        SELECT id, pregnancies, glucose, blood_pressure, skin_thickness, insulin,
               bmi, diabetes_pedigree, age, predicted_label, correct_prediction, created_at
        FROM feedback
        ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.Pregnancies,
			&rec.Glucose,
			&rec.BloodPressure,
			&rec.SkinThickness,
			&rec.Insulin,
			&rec.BMI,
			&rec.DiabetesPedigreeFunction,
			&rec.Age,
			&rec.Predicted,
			&rec.CorrectPrediction,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	if r.database == nil {
		return 0, ErrClosed
	}
	var n int
	err := r.database.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

func (r *SQLiteRepository) Close() error {
	if r.database == nil {
		return nil
	}
	err := r.database.Close()
	r.database = nil
	return err
}
