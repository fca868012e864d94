package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreidentity/iamcore/pkg/application"
	"gorm.io/gorm"
)

// OrganizationReadModelGORM is the durable row shape for the organization
// read model, kept current by OrganizationProjection tailing the eventstore.
type OrganizationReadModelGORM struct {
	ID         string `gorm:"primaryKey;size:64"`
	InstanceID string `gorm:"size:64;index:idx_org_rm_instance,priority:1"`
	Name       string `gorm:"size:200"`
	Slug       string `gorm:"size:100;index:idx_org_rm_slug,priority:2"`
	State      string `gorm:"size:16"`
	Version    int64
}

func (OrganizationReadModelGORM) TableName() string { return "organization_read_models" }

func (o *OrganizationReadModelGORM) toApplication() *application.OrganizationReadModel {
	return &application.OrganizationReadModel{
		ID:         o.ID,
		InstanceID: o.InstanceID,
		Name:       o.Name,
		Slug:       o.Slug,
		State:      o.State,
		Version:    o.Version,
	}
}

// OrganizationReadModelGORMRepository implements application.OrganizationReadModelRepository.
type OrganizationReadModelGORMRepository struct {
	db *gorm.DB
}

func NewOrganizationReadModelGORMRepository(db *gorm.DB) *OrganizationReadModelGORMRepository {
	return &OrganizationReadModelGORMRepository{db: db}
}

func (r *OrganizationReadModelGORMRepository) Migrate() error {
	return r.db.AutoMigrate(&OrganizationReadModelGORM{})
}

func (r *OrganizationReadModelGORMRepository) GetByID(ctx context.Context, instanceID, id string) (*application.OrganizationReadModel, error) {
	var row OrganizationReadModelGORM
	err := r.db.WithContext(ctx).Where("instance_id = ? AND id = ?", instanceID, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("organization %s not found: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get organization by id: %w", err)
	}
	return row.toApplication(), nil
}

func (r *OrganizationReadModelGORMRepository) GetBySlug(ctx context.Context, instanceID, slug string) (*application.OrganizationReadModel, error) {
	var row OrganizationReadModelGORM
	err := r.db.WithContext(ctx).Where("instance_id = ? AND slug = ?", instanceID, slug).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("organization with slug %s not found: %w", slug, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get organization by slug: %w", err)
	}
	return row.toApplication(), nil
}

func (r *OrganizationReadModelGORMRepository) List(ctx context.Context, instanceID string, page, pageSize int) ([]application.OrganizationReadModel, int, error) {
	var rows []OrganizationReadModelGORM
	var total int64

	q := r.db.WithContext(ctx).Model(&OrganizationReadModelGORM{}).Where("instance_id = ?", instanceID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := q.Offset(offset).Limit(pageSize).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}

	orgs := make([]application.OrganizationReadModel, len(rows))
	for i, row := range rows {
		orgs[i] = *row.toApplication()
	}
	return orgs, int(total), nil
}

func (r *OrganizationReadModelGORMRepository) Save(ctx context.Context, org *application.OrganizationReadModel) error {
	row := OrganizationReadModelGORM{
		ID:         org.ID,
		InstanceID: org.InstanceID,
		Name:       org.Name,
		Slug:       org.Slug,
		State:      org.State,
		Version:    org.Version,
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save organization read model: %w", err)
	}
	return nil
}

func (r *OrganizationReadModelGORMRepository) Delete(ctx context.Context, instanceID, id string) error {
	if err := r.db.WithContext(ctx).Where("instance_id = ? AND id = ?", instanceID, id).Delete(&OrganizationReadModelGORM{}).Error; err != nil {
		return fmt.Errorf("delete organization read model: %w", err)
	}
	return nil
}

func (r *OrganizationReadModelGORMRepository) Count(ctx context.Context, instanceID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrganizationReadModelGORM{}).Where("instance_id = ?", instanceID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}
	return int(count), nil
}
