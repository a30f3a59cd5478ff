package order

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/persistence"
	"construxflow/session"

	"github.com/jinzhu/gorm"
)

const orderDetailColumns = "o.*, COALESCE(i.material_name, '') AS material_name, COALESCE(i.unit, '') AS unit, " +
	"COALESCE(p.name, '') AS project_name, " +
	"COALESCE(c.name, '') AS contractor_name, COALESCE(c.phone, '') AS contractor_phone, " +
	"COALESCE(sp.name, '') AS supplier_name, COALESCE(sp.phone, '') AS supplier_phone"

func orderDetails(db *gorm.DB) *gorm.DB {
	return db.Table("orders o").Select(orderDetailColumns).
		Joins("LEFT JOIN inventory_items i ON i.id = o.material_id").
		Joins("LEFT JOIN projects p ON p.id = o.project_id").
		Joins("LEFT JOIN users c ON c.id = o.contractor_id").
		Joins("LEFT JOIN users sp ON sp.id = o.supplier_id")
}

func scanOrderDetails(db *gorm.DB) ([]domain.OrderDetail, error) {
	details := []domain.OrderDetail{}
	if err := db.Order("o.ordered_time DESC").Scan(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// QueryContractorOrders lists orders placed by the session contractor, supplier phone shared after approval
func QueryContractorOrders(s *session.Session) ([]domain.OrderDetail, error) {
	if !s.HasRole(authority.RoleContractor) {
		return nil, bizerror.ErrForbidden
	}
	details, err := scanOrderDetails(orderDetails(persistence.ActiveDataSourceManager.GormDB(s.Context)).
		Where("o.contractor_id = ?", s.Identity.ID))
	if err != nil {
		return nil, err
	}
	for i := range details {
		if details[i].Status != domain.StatusApproved {
			details[i].SupplierPhone = ""
		}
	}
	return details, nil
}

// QuerySupplierOrders lists orders addressed to the session supplier, contractor phone shared after approval
func QuerySupplierOrders(s *session.Session) ([]domain.OrderDetail, error) {
	if !s.HasRole(authority.RoleSupplier) {
		return nil, bizerror.ErrForbidden
	}
	details, err := scanOrderDetails(orderDetails(persistence.ActiveDataSourceManager.GormDB(s.Context)).
		Where("o.supplier_id = ?", s.Identity.ID))
	if err != nil {
		return nil, err
	}
	for i := range details {
		if details[i].Status != domain.StatusApproved {
			details[i].ContractorPhone = ""
		}
	}
	return details, nil
}

func QueryAllOrders(s *session.Session) ([]domain.OrderDetail, error) {
	if !s.HasRole(authority.RoleAdmin) {
		return nil, bizerror.ErrForbidden
	}
	return scanOrderDetails(orderDetails(persistence.ActiveDataSourceManager.GormDB(s.Context)))
}
