package repository

import (
	"errors"

	"wasteloop/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultResidueRepository struct {
	db *gorm.DB
}

func NewResidueRepository(db *gorm.DB) *DefaultResidueRepository {
	return &DefaultResidueRepository{db: db}
}

func (r *DefaultResidueRepository) FindByID(id int64) (*entity.Residue, error) {
	var residue entity.Residue
	err := r.db.First(&residue, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &residue, nil
}

func (r *DefaultResidueRepository) FindActive() ([]*entity.Residue, error) {
	var residues []*entity.Residue
	err := r.db.
		Where("status = ?", entity.ResidueActive).
		Find(&residues).Error
	if err != nil {
		return nil, err
	}
	return residues, nil
}

func (r *DefaultResidueRepository) Save(residue *entity.Residue) error {
	return r.db.Save(residue).Error
}
