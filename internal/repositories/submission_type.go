package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/submission-validator/internal/models"
)

// SubmissionTypeRepository reads and writes the operator-editable overrides
// merged over the built-in registry at startup.
type SubmissionTypeRepository interface {
	FindAll() ([]models.SubmissionType, error)
	Upsert(submissionType *models.SubmissionType) error
}

type submissionTypeRepository struct {
	db *gorm.DB
}

func NewSubmissionTypeRepository(db *gorm.DB) SubmissionTypeRepository {
	return &submissionTypeRepository{db: db}
}

// FindAll implements SubmissionTypeRepository.
func (r *submissionTypeRepository) FindAll() ([]models.SubmissionType, error) {
	var types []models.SubmissionType
	if err := r.db.Order("key ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to find submission types: %w", err)
	}

	return types, nil
}

// Upsert implements SubmissionTypeRepository.
func (r *submissionTypeRepository) Upsert(submissionType *models.SubmissionType) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"label",
			"description",
			"allowed_formats",
			"max_size_bytes",
			"naming_convention",
			"content_expectations",
			"updated_at",
		}),
	}).Create(submissionType).Error
	if err != nil {
		return fmt.Errorf("failed to upsert submission type %q: %w", submissionType.Key, err)
	}

	return nil
}
