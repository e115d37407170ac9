package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"policy-service/internal/model"
)

type PolicyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) Create(ctx context.Context, record *model.PolicyRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PolicyRepository) GetByID(ctx context.Context, id string) (*model.PolicyRecord, error) {
	var record model.PolicyRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

type PolicyListFilter struct {
	PlateNumber *string
	ActiveFrom  *time.Time
	ActiveTo    *time.Time
	Limit       int
}

func (r *PolicyRepository) List(ctx context.Context, filter PolicyListFilter) ([]model.PolicyRecord, error) {
	var records []model.PolicyRecord
	query := r.db.WithContext(ctx).Model(&model.PolicyRecord{})

	if filter.PlateNumber != nil {
		query = query.Where("plate_number = ?", *filter.PlateNumber)
	}
	// полис попадает в выборку, если период действия пересекается с интервалом
	if filter.ActiveFrom != nil {
		query = query.Where("end_date >= ?", *filter.ActiveFrom)
	}
	if filter.ActiveTo != nil {
		query = query.Where("start_date <= ?", *filter.ActiveTo)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
