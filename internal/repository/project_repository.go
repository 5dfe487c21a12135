package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskbuddy/internal/model"
)

// ProjectProgress is a project with derived task counts.
type ProjectProgress struct {
	ID        uint
	Title     string
	Total     int
	Completed int
}

// ProjectRepository handles projects and their task groupings.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, userID int64, title string) (*model.Project, error) {
	project := model.Project{UserID: userID, Title: title}
	if err := r.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, translate("create project", err)
	}
	return &project, nil
}

// ResolveID looks a project up by its exact title.
func (r *ProjectRepository) ResolveID(ctx context.Context, userID int64, title string) (uint, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND title = ?", userID, title).
		First(&project).Error; err != nil {
		return 0, translate("resolve project", err)
	}
	return project.ID, nil
}

// Delete removes the project and every task referencing it in one
// transaction. No log entries are written for the removed tasks.
func (r *ProjectRepository) Delete(ctx context.Context, projectID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Project{}, projectID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("delete project", err)
}

// CompleteAll marks every task under the project done, whatever its
// current status. The bulk path intentionally writes no log entries.
func (r *ProjectRepository) CompleteAll(ctx context.Context, projectID uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{"status": model.StatusDone, "completed_at": at}).Error
	return translate("complete project", err)
}

// WithProgress lists the user's projects with total and completed task counts.
func (r *ProjectRepository) WithProgress(ctx context.Context, userID int64) ([]ProjectProgress, error) {
	var rows []ProjectProgress
	err := r.db.WithContext(ctx).Table("projects").
		Select("projects.id, projects.title, COUNT(tasks.id) AS total, "+
			"COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS completed", model.StatusDone).
		Joins("LEFT JOIN tasks ON tasks.project_id = projects.id").
		Where("projects.user_id = ?", userID).
		Group("projects.id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("project progress", err)
	}
	return rows, nil
}

// Tasks returns every task of the project ordered by date, then time.
func (r *ProjectRepository) Tasks(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("date ASC, time ASC").
		Find(&tasks).Error; err != nil {
		return nil, translate("project tasks", err)
	}
	return tasks, nil
}
