package ledger

import (
	"construxflow/bizerror"
	"construxflow/domain"
	"errors"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// ErrNoVacancyRow the project has no manpower requirement for the role
var ErrNoVacancyRow = errors.New("no manpower requirement for role")

var (
	DecrementVacancyFunc = DecrementVacancy
	DecrementStockFunc   = DecrementStock
)

// DecrementVacancy takes one seat of roleKey on the project within tx and returns the remaining count.
// The check and the decrement are one statement, concurrent callers can never drive the count below zero.
func DecrementVacancy(tx *gorm.DB, projectID types.ID, roleKey string) (int, error) {
	db := tx.Model(&domain.ManpowerRequirement{}).
		Where("project_id = ? AND role_key = ? AND required_count >= 1", projectID, roleKey).
		UpdateColumn("required_count", gorm.Expr("required_count - 1"))
	if db.Error != nil {
		return 0, db.Error
	}

	var requirement domain.ManpowerRequirement
	err := tx.Where("project_id = ? AND role_key = ?", projectID, roleKey).First(&requirement).Error
	if gorm.IsRecordNotFoundError(err) {
		return 0, ErrNoVacancyRow
	}
	if err != nil {
		return 0, err
	}
	if db.RowsAffected != 1 {
		return 0, bizerror.ErrInsufficientCapacity
	}
	return requirement.RequiredCount, nil
}

// DecrementStock takes amount units of the material within tx and returns the remaining quantity.
func DecrementStock(tx *gorm.DB, materialID types.ID, amount int) (int, error) {
	if amount <= 0 {
		return 0, bizerror.BadParam("amount must be positive")
	}
	db := tx.Model(&domain.InventoryItem{}).
		Where("id = ? AND quantity >= ?", materialID, amount).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", amount))
	if db.Error != nil {
		return 0, db.Error
	}

	var item domain.InventoryItem
	if err := tx.Where("id = ?", materialID).First(&item).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return 0, bizerror.ErrNotFound
		}
		return 0, err
	}
	if db.RowsAffected != 1 {
		return 0, bizerror.ErrInsufficientCapacity
	}
	return item.Quantity, nil
}
