package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreidentity/iamcore/pkg/application"
	"gorm.io/gorm"
)

// UserReadModelGORM is the durable row shape for the user read model,
// kept current by UserProjection tailing the eventstore.
type UserReadModelGORM struct {
	ID         string `gorm:"primaryKey;size:64"`
	InstanceID string `gorm:"size:64;index:idx_user_rm_instance,priority:1"`
	Email      string `gorm:"size:254;index:idx_user_rm_email,priority:2"`
	Name       string `gorm:"size:100"`
	Owner      string `gorm:"size:64"`
	State      string `gorm:"size:16"`
	Version    int64
}

func (UserReadModelGORM) TableName() string { return "user_read_models" }

func (u *UserReadModelGORM) toApplication() *application.UserReadModel {
	return &application.UserReadModel{
		ID:         u.ID,
		InstanceID: u.InstanceID,
		Email:      u.Email,
		Name:       u.Name,
		Owner:      u.Owner,
		State:      u.State,
		Version:    u.Version,
	}
}

// UserReadModelGORMRepository implements application.UserReadModelRepository.
type UserReadModelGORMRepository struct {
	db *gorm.DB
}

func NewUserReadModelGORMRepository(db *gorm.DB) *UserReadModelGORMRepository {
	return &UserReadModelGORMRepository{db: db}
}

// Migrate creates the user read model table.
func (r *UserReadModelGORMRepository) Migrate() error {
	return r.db.AutoMigrate(&UserReadModelGORM{})
}

func (r *UserReadModelGORMRepository) GetByID(ctx context.Context, instanceID, id string) (*application.UserReadModel, error) {
	var row UserReadModelGORM
	err := r.db.WithContext(ctx).Where("instance_id = ? AND id = ?", instanceID, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s not found: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return row.toApplication(), nil
}

func (r *UserReadModelGORMRepository) GetByEmail(ctx context.Context, instanceID, email string) (*application.UserReadModel, error) {
	var row UserReadModelGORM
	err := r.db.WithContext(ctx).Where("instance_id = ? AND email = ?", instanceID, email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user with email %s not found: %w", email, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return row.toApplication(), nil
}

func (r *UserReadModelGORMRepository) List(ctx context.Context, instanceID string, page, pageSize int) ([]application.UserReadModel, int, error) {
	var rows []UserReadModelGORM
	var total int64

	q := r.db.WithContext(ctx).Model(&UserReadModelGORM{}).Where("instance_id = ?", instanceID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := q.Offset(offset).Limit(pageSize).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]application.UserReadModel, len(rows))
	for i, row := range rows {
		users[i] = *row.toApplication()
	}
	return users, int(total), nil
}

func (r *UserReadModelGORMRepository) Save(ctx context.Context, user *application.UserReadModel) error {
	row := UserReadModelGORM{
		ID:         user.ID,
		InstanceID: user.InstanceID,
		Email:      user.Email,
		Name:       user.Name,
		Owner:      user.Owner,
		State:      user.State,
		Version:    user.Version,
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save user read model: %w", err)
	}
	return nil
}

func (r *UserReadModelGORMRepository) Delete(ctx context.Context, instanceID, id string) error {
	if err := r.db.WithContext(ctx).Where("instance_id = ? AND id = ?", instanceID, id).Delete(&UserReadModelGORM{}).Error; err != nil {
		return fmt.Errorf("delete user read model: %w", err)
	}
	return nil
}

func (r *UserReadModelGORMRepository) Count(ctx context.Context, instanceID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserReadModelGORM{}).Where("instance_id = ?", instanceID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return int(count), nil
}
