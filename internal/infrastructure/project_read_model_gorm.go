package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreidentity/iamcore/pkg/application"
	"gorm.io/gorm"
)

// ProjectReadModelGORM is the durable row shape for the project read model,
// kept current by ProjectProjection tailing the eventstore.
type ProjectReadModelGORM struct {
	ID         string `gorm:"primaryKey;size:64"`
	InstanceID string `gorm:"size:64;index:idx_project_rm_instance,priority:1"`
	Name       string `gorm:"size:200"`
	Slug       string `gorm:"size:100;index:idx_project_rm_owner_slug,priority:2"`
	OwnerOrgID string `gorm:"size:64;index:idx_project_rm_owner_slug,priority:1"`
	State      string `gorm:"size:16"`
	Version    int64
}

func (ProjectReadModelGORM) TableName() string { return "project_read_models" }

func (p *ProjectReadModelGORM) toApplication() *application.ProjectReadModel {
	return &application.ProjectReadModel{
		ID:         p.ID,
		InstanceID: p.InstanceID,
		Name:       p.Name,
		Slug:       p.Slug,
		OwnerOrgID: p.OwnerOrgID,
		State:      p.State,
		Version:    p.Version,
	}
}

// ProjectReadModelGORMRepository implements application.ProjectReadModelRepository.
type ProjectReadModelGORMRepository struct {
	db *gorm.DB
}

func NewProjectReadModelGORMRepository(db *gorm.DB) *ProjectReadModelGORMRepository {
	return &ProjectReadModelGORMRepository{db: db}
}

func (r *ProjectReadModelGORMRepository) Migrate() error {
	return r.db.AutoMigrate(&ProjectReadModelGORM{})
}

func (r *ProjectReadModelGORMRepository) GetByID(ctx context.Context, instanceID, id string) (*application.ProjectReadModel, error) {
	var row ProjectReadModelGORM
	err := r.db.WithContext(ctx).Where("instance_id = ? AND id = ?", instanceID, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("project %s not found: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get project by id: %w", err)
	}
	return row.toApplication(), nil
}

func (r *ProjectReadModelGORMRepository) GetBySlug(ctx context.Context, instanceID, ownerOrgID, slug string) (*application.ProjectReadModel, error) {
	var row ProjectReadModelGORM
	err := r.db.WithContext(ctx).Where("instance_id = ? AND owner_org_id = ? AND slug = ?", instanceID, ownerOrgID, slug).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("project with slug %s not found: %w", slug, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get project by slug: %w", err)
	}
	return row.toApplication(), nil
}

func (r *ProjectReadModelGORMRepository) ListByOwner(ctx context.Context, instanceID, ownerOrgID string, page, pageSize int) ([]application.ProjectReadModel, int, error) {
	var rows []ProjectReadModelGORM
	var total int64

	q := r.db.WithContext(ctx).Model(&ProjectReadModelGORM{}).Where("instance_id = ? AND owner_org_id = ?", instanceID, ownerOrgID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := q.Offset(offset).Limit(pageSize).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]application.ProjectReadModel, len(rows))
	for i, row := range rows {
		projects[i] = *row.toApplication()
	}
	return projects, int(total), nil
}

func (r *ProjectReadModelGORMRepository) Save(ctx context.Context, project *application.ProjectReadModel) error {
	row := ProjectReadModelGORM{
		ID:         project.ID,
		InstanceID: project.InstanceID,
		Name:       project.Name,
		Slug:       project.Slug,
		OwnerOrgID: project.OwnerOrgID,
		State:      project.State,
		Version:    project.Version,
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save project read model: %w", err)
	}
	return nil
}

func (r *ProjectReadModelGORMRepository) Delete(ctx context.Context, instanceID, id string) error {
	if err := r.db.WithContext(ctx).Where("instance_id = ? AND id = ?", instanceID, id).Delete(&ProjectReadModelGORM{}).Error; err != nil {
		return fmt.Errorf("delete project read model: %w", err)
	}
	return nil
}

func (r *ProjectReadModelGORMRepository) Count(ctx context.Context, instanceID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProjectReadModelGORM{}).Where("instance_id = ?", instanceID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return int(count), nil
}
