package domain

import (
	"github.com/fundwit/go-commons/types"
)

// InventoryItem.Quantity is the live stock counter of a supplier material
type InventoryItem struct {
	ID         types.ID `json:"id" gorm:"primary_key"`
	SupplierID types.ID `json:"supplierId" gorm:"index:supplier_idx" sql:"type:BIGINT UNSIGNED NOT NULL"`

	MaterialName string  `json:"materialName" sql:"type:VARCHAR(200) NOT NULL"`
	Quantity     int     `json:"quantity" sql:"type:INT NOT NULL"`
	Unit         string  `json:"unit" sql:"type:VARCHAR(50) NOT NULL"`
	PricePerUnit float64 `json:"pricePerUnit" sql:"type:DECIMAL(12,2) NOT NULL"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type InventoryItemCreation struct {
	MaterialName string  `json:"materialName" binding:"required,lte=200"`
	Quantity     int     `json:"quantity" binding:"required,gte=1"`
	Unit         string  `json:"unit" binding:"required,lte=50"`
	PricePerUnit float64 `json:"pricePerUnit" binding:"required,gt=0"`
}

// InventoryItemUpdating absent fields are left untouched
type InventoryItemUpdating struct {
	Quantity     *int     `json:"quantity" binding:"omitempty,gte=0"`
	PricePerUnit *float64 `json:"pricePerUnit" binding:"omitempty,gte=0"`
}

// MaterialDetail inventory item with supplier info, as found by contractors
type MaterialDetail struct {
	InventoryItem

	SupplierName  string `json:"supplierName"`
	SupplierPhone string `json:"supplierPhone"`
}
