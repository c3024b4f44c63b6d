package ui

import "sltrun/internal/domain"

// Viewer displays saved run results
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}

var _ Viewer = (*ErrorViewer)(nil)
