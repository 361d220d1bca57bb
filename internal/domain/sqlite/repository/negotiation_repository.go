package repository

import (
	"errors"

	"wasteloop/internal/domain/entity"

	"gorm.io/gorm"
)

// ErrDuplicateActive is returned when inserting a negotiation whose active
// (requester, supplier, residue) triple is already taken. The unique index on
// active_key raises it even when two creators race past the application-level
// duplicate check.
var ErrDuplicateActive = errors.New("active negotiation already exists for this triple")

type DefaultNegotiationRepository struct {
	db *gorm.DB
}

func NewNegotiationRepository(db *gorm.DB) *DefaultNegotiationRepository {
	return &DefaultNegotiationRepository{db: db}
}

func (r *DefaultNegotiationRepository) FindByID(id int64) (*entity.Negotiation, error) {
	var negotiation entity.Negotiation
	err := r.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		First(&negotiation, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &negotiation, nil
}

func (r *DefaultNegotiationRepository) FindByRequester(companyID int64) ([]*entity.Negotiation, error) {
	return r.findByColumn("requester_id", companyID)
}

func (r *DefaultNegotiationRepository) FindBySupplier(companyID int64) ([]*entity.Negotiation, error) {
	return r.findByColumn("supplier_id", companyID)
}

func (r *DefaultNegotiationRepository) FindActiveByTriple(requesterID, supplierID, residueID int64) (*entity.Negotiation, error) {
	var negotiation entity.Negotiation
	err := r.db.
		Where("active_key = ?", entity.ActiveKeyFor(requesterID, supplierID, residueID)).
		First(&negotiation).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &negotiation, nil
}

func (r *DefaultNegotiationRepository) Insert(negotiation *entity.Negotiation) error {
	err := r.db.Create(negotiation).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateActive
	}
	return err
}

// Update persists the whole aggregate, message list included, as one unit.
// Aggregate-level last-writer-wins: no optimistic locking beyond that.
func (r *DefaultNegotiationRepository) Update(negotiation *entity.Negotiation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Save(negotiation).Error
		if err != nil {
			return err
		}

		for i := range negotiation.Messages {
			if err := tx.Save(&negotiation.Messages[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DefaultNegotiationRepository) findByColumn(column string, companyID int64) ([]*entity.Negotiation, error) {
	var negotiations []*entity.Negotiation
	err := r.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where(column+" = ?", companyID).
		Order("created_at DESC").
		Find(&negotiations).Error
	if err != nil {
		return nil, err
	}
	return negotiations, nil
}
