// HistoryData is a paginated response payload for the submission history.
package dto

import "dementiaui/internal/model"

type HistoryData struct {
	Submissions []model.Submission   `json:"submissions"`
	Counts      map[model.Status]int `json:"counts"`
	Length      int                  `json:"length"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
	Limit       int                  `json:"pageSize"`
}
