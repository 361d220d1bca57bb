package repository

import (
	"errors"

	"wasteloop/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNeedRepository struct {
	db *gorm.DB
}

func NewNeedRepository(db *gorm.DB) *DefaultNeedRepository {
	return &DefaultNeedRepository{db: db}
}

func (r *DefaultNeedRepository) FindByID(id int64) (*entity.Need, error) {
	var need entity.Need
	err := r.db.First(&need, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &need, nil
}

func (r *DefaultNeedRepository) FindActive() ([]*entity.Need, error) {
	var needs []*entity.Need
	err := r.db.
		Where("status = ?", entity.NeedActive).
		Find(&needs).Error
	if err != nil {
		return nil, err
	}
	return needs, nil
}

func (r *DefaultNeedRepository) Save(need *entity.Need) error {
	return r.db.Save(need).Error
}
