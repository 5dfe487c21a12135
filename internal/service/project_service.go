package service

import (
	"context"
	"sort"
	"time"

	"taskbuddy/internal/model"
	"taskbuddy/internal/repository"
)

// ProjectStore is the persistence surface for project operations.
type ProjectStore interface {
	Create(ctx context.Context, userID int64, title string) (*model.Project, error)
	ResolveID(ctx context.Context, userID int64, title string) (uint, error)
	Delete(ctx context.Context, projectID uint) error
	CompleteAll(ctx context.Context, projectID uint, at time.Time) error
	WithProgress(ctx context.Context, userID int64) ([]repository.ProjectProgress, error)
	Tasks(ctx context.Context, projectID uint) ([]model.Task, error)
}

// ProjectService provides project management on top of the store.
type ProjectService struct {
	projects ProjectStore
}

func NewProjectService(projects ProjectStore) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) Create(ctx context.Context, userID int64, title string) (*model.Project, error) {
	return s.projects.Create(ctx, userID, title)
}

// Complete marks every task of the titled project done. Unlike the
// per-task path this writes no log entries, so bulk-closed tasks do not
// count towards statistics.
func (s *ProjectService) Complete(ctx context.Context, userID int64, title string, at time.Time) error {
	id, err := s.projects.ResolveID(ctx, userID, title)
	if err != nil {
		return err
	}
	return s.projects.CompleteAll(ctx, id, at)
}

// Delete removes the titled project together with all its tasks.
func (s *ProjectService) Delete(ctx context.Context, userID int64, title string) error {
	id, err := s.projects.ResolveID(ctx, userID, title)
	if err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

// ListWithProgress returns the user's projects, most complete first.
func (s *ProjectService) ListWithProgress(ctx context.Context, userID int64) ([]repository.ProjectProgress, error) {
	rows, err := s.projects.WithProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return ratio(rows[i]) > ratio(rows[j])
	})
	return rows, nil
}

func (s *ProjectService) Tasks(ctx context.Context, projectID uint) ([]model.Task, error) {
	return s.projects.Tasks(ctx, projectID)
}

func ratio(p repository.ProjectProgress) float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// ProgressPercent is the completed share of a project's tasks, 0 for an
// empty project.
func ProgressPercent(p repository.ProjectProgress) int {
	if p.Total == 0 {
		return 0
	}
	return int(float64(p.Completed) / float64(p.Total) * 100)
}
