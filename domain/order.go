package domain

import (
	"math"

	"github.com/fundwit/go-commons/types"
)

type Order struct {
	ID           types.ID `json:"id" gorm:"primary_key"`
	ProjectID    types.ID `json:"projectId" sql:"type:BIGINT UNSIGNED NOT NULL"`
	ContractorID types.ID `json:"contractorId" gorm:"index:contractor_idx" sql:"type:BIGINT UNSIGNED NOT NULL"`
	SupplierID   types.ID `json:"supplierId" gorm:"index:supplier_idx" sql:"type:BIGINT UNSIGNED NOT NULL"`
	MaterialID   types.ID `json:"materialId" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Quantity int `json:"quantity" sql:"type:INT NOT NULL"`
	// TotalPrice is fixed when the order is placed
	TotalPrice float64 `json:"totalPrice" sql:"type:DECIMAL(14,2) NOT NULL"`

	Status      Status          `json:"status" sql:"type:VARCHAR(16) NOT NULL"`
	OrderedTime types.Timestamp `json:"orderedTime" sql:"type:DATETIME(6) NOT NULL"`
	DecideTime  types.Timestamp `json:"decideTime" sql:"type:DATETIME(6)"`
}

type OrderCreation struct {
	ProjectID  types.ID `json:"projectId" binding:"required"`
	MaterialID types.ID `json:"materialId" binding:"required"`
	Quantity   int      `json:"quantity" binding:"required,gte=1"`
}

type OrderDetail struct {
	Order

	MaterialName    string `json:"materialName"`
	Unit            string `json:"unit"`
	ProjectName     string `json:"projectName"`
	ContractorName  string `json:"contractorName"`
	ContractorPhone string `json:"contractorPhone"`
	SupplierName    string `json:"supplierName"`
	SupplierPhone   string `json:"supplierPhone"`
}

// TotalPriceOf rounds to cents
func TotalPriceOf(quantity int, pricePerUnit float64) float64 {
	return math.Round(float64(quantity)*pricePerUnit*100) / 100
}
