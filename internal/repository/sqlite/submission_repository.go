package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"dementiaui/internal/model"
)

const submissionColumns = `id, filename, filesize, status, label, confidence, message, http_status, duration_ms, timestamp`

// SubmissionRepository implements repository.SubmissionRepository for SQLite.
type SubmissionRepository struct {
	db *DB
}

// NewSubmissionRepository creates a new SQLite submission repository.
func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Insert adds a new submission record to the database.
func (r *SubmissionRepository) Insert(s *model.Submission) error {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().Exec(`
		INSERT INTO submissions (`+submissionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Filename, s.FileSize, string(s.Status), s.Label, s.Confidence, s.Message,
		s.HTTPStatus, s.Duration.Milliseconds(), s.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission by its ID.
func (r *SubmissionRepository) GetByID(id string) (*model.Submission, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	row := r.db.Conn().QueryRow(`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	s, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

// GetAll retrieves submissions, newest first.
func (r *SubmissionRepository) GetAll(filter *model.SubmissionFilter) ([]model.Submission, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}

	query += " ORDER BY timestamp DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, *s)
	}

	return submissions, rows.Err()
}

// GetTotalCount returns the total count of submissions matching the filter.
func (r *SubmissionRepository) GetTotalCount(filter *model.SubmissionFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `SELECT COUNT(*) FROM submissions WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}

	var count int
	if err := r.db.Conn().QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of submissions per outcome.
func (r *SubmissionRepository) CountByStatus() (map[model.Status]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`SELECT status, COUNT(*) FROM submissions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[model.Status(status)] = count
	}
	return counts, rows.Err()
}

// DeleteAll removes every submission.
func (r *SubmissionRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM submissions`); err != nil {
		return fmt.Errorf("failed to delete submissions: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row scanner) (*model.Submission, error) {
	var s model.Submission
	var status string
	var durationMs int64
	if err := row.Scan(&s.ID, &s.Filename, &s.FileSize, &status, &s.Label, &s.Confidence,
		&s.Message, &s.HTTPStatus, &durationMs, &s.Timestamp); err != nil {
		return nil, err
	}
	s.Status = model.Status(status)
	s.Duration = time.Duration(durationMs) * time.Millisecond
	return &s, nil
}
