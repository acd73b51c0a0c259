package repository

import "dementiaui/internal/model"

// SubmissionRepository defines the interface for submission history operations.
type SubmissionRepository interface {
	// Create operations
	Insert(s *model.Submission) error

	// Read operations
	GetByID(id string) (*model.Submission, error)
	GetAll(filter *model.SubmissionFilter) ([]model.Submission, error)
	GetTotalCount(filter *model.SubmissionFilter) (int, error)
	CountByStatus() (map[model.Status]int, error)

	// Delete operations
	DeleteAll() error
}
