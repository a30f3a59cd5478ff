package indices

import (
	"construxflow/client/es"
	"construxflow/domain"
	"construxflow/session"
	"fmt"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	MaterialIndexName = "materials"
)

// MaterialDocument is the searchable form of an inventory item
type MaterialDocument struct {
	ID            types.ID `json:"id"`
	SupplierID    types.ID `json:"supplierId"`
	SupplierName  string   `json:"supplierName"`
	SupplierPhone string   `json:"supplierPhone"`
	MaterialName  string   `json:"materialName"`
	Unit          string   `json:"unit"`
	Quantity      int      `json:"quantity"`
	PricePerUnit  float64  `json:"pricePerUnit"`
}

func NewMaterialDocument(m *domain.MaterialDetail) MaterialDocument {
	return MaterialDocument{
		ID:            m.ID,
		SupplierID:    m.SupplierID,
		SupplierName:  m.SupplierName,
		SupplierPhone: m.SupplierPhone,
		MaterialName:  m.MaterialName,
		Unit:          m.Unit,
		Quantity:      m.Quantity,
		PricePerUnit:  m.PricePerUnit,
	}
}

type BatchActionError map[types.ID]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[types.ID]error(e))
}

// IndexMaterials indexes every material, failures are collected per document
func IndexMaterials(materials []domain.MaterialDetail, s *session.Session) error {
	errs := BatchActionError{}
	for i := range materials {
		doc := NewMaterialDocument(&materials[i])
		if err := es.IndexFunc(MaterialIndexName, doc.ID, doc, s); err != nil {
			errs[doc.ID] = err
			logrus.WithField("material", doc.ID).Warn("index material: ", err)
		} else {
			logrus.WithField("material", doc.ID).Debug("material indexed")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
