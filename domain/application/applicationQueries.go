package application

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/persistence"
	"construxflow/session"

	"github.com/jinzhu/gorm"
)

const workerApplicationColumns = "wa.*, p.name AS project_name, p.location, p.description, p.start_date, p.end_date, " +
	"p.contractor_id, COALESCE(u.name, '') AS contractor_name, COALESCE(u.phone, '') AS contractor_phone"

func workerApplications(db *gorm.DB) *gorm.DB {
	return db.Table("worker_applications wa").Select(workerApplicationColumns).
		Joins("JOIN projects p ON p.id = wa.project_id").
		Joins("LEFT JOIN users u ON u.id = p.contractor_id")
}

// contact details are shared only once the application was approved
func hideContractorPhones(details []domain.WorkerApplicationDetail) []domain.WorkerApplicationDetail {
	if details == nil {
		return []domain.WorkerApplicationDetail{}
	}
	for i := range details {
		if details[i].Status != domain.StatusApproved {
			details[i].ContractorPhone = ""
		}
	}
	return details
}

// QueryMyApplications lists applications of the session worker, newest first
func QueryMyApplications(s *session.Session) ([]domain.WorkerApplicationDetail, error) {
	if !s.HasRole(authority.RoleWorker) {
		return nil, bizerror.ErrForbidden
	}
	var details []domain.WorkerApplicationDetail
	if err := workerApplications(persistence.ActiveDataSourceManager.GormDB(s.Context)).
		Where("wa.worker_id = ?", s.Identity.ID).
		Order("wa.applied_time DESC").Scan(&details).Error; err != nil {
		return nil, err
	}
	return hideContractorPhones(details), nil
}

// QueryActiveJobs lists approved applications of the session worker, latest start first
func QueryActiveJobs(s *session.Session) ([]domain.WorkerApplicationDetail, error) {
	if !s.HasRole(authority.RoleWorker) {
		return nil, bizerror.ErrForbidden
	}
	var details []domain.WorkerApplicationDetail
	if err := workerApplications(persistence.ActiveDataSourceManager.GormDB(s.Context)).
		Where("wa.worker_id = ? AND wa.status = ?", s.Identity.ID, domain.StatusApproved).
		Order("p.start_date DESC").Scan(&details).Error; err != nil {
		return nil, err
	}
	return hideContractorPhones(details), nil
}

// QueryReceivedApplications lists applications to projects of the session contractor, newest first
func QueryReceivedApplications(s *session.Session) ([]domain.ReceivedApplication, error) {
	if !s.HasRole(authority.RoleContractor) {
		return nil, bizerror.ErrForbidden
	}
	var received []domain.ReceivedApplication
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Table("worker_applications wa").
		Select("wa.*, COALESCE(u.name, '') AS worker_name, COALESCE(u.worker_type, '') AS worker_type, "+
			"COALESCE(u.phone, '') AS worker_phone, p.name AS project_name").
		Joins("JOIN projects p ON p.id = wa.project_id").
		Joins("LEFT JOIN users u ON u.id = wa.worker_id").
		Where("p.contractor_id = ?", s.Identity.ID).
		Order("wa.applied_time DESC").Scan(&received).Error; err != nil {
		return nil, err
	}
	if received == nil {
		return []domain.ReceivedApplication{}, nil
	}
	for i := range received {
		if received[i].Status != domain.StatusApproved {
			received[i].WorkerPhone = ""
		}
	}
	return received, nil
}
