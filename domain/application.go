package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type WorkerApplication struct {
	ID        types.ID `json:"id" gorm:"primary_key"`
	ProjectID types.ID `json:"projectId" gorm:"unique_index:project_worker_unique" sql:"type:BIGINT UNSIGNED NOT NULL"`
	WorkerID  types.ID `json:"workerId" gorm:"unique_index:project_worker_unique" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Status Status `json:"status" sql:"type:VARCHAR(16) NOT NULL"`
	// false when the approval found no manpower requirement for the worker's trade, kept for manual reconciliation
	VacancyMatched bool `json:"vacancyMatched"`

	AppliedTime types.Timestamp `json:"appliedTime" sql:"type:DATETIME(6) NOT NULL"`
	DecideTime  types.Timestamp `json:"decideTime" sql:"type:DATETIME(6)"`
}

// WorkerApplicationDetail application with project and contractor info, as listed to the worker
type WorkerApplicationDetail struct {
	WorkerApplication

	ProjectName     string    `json:"projectName"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	ContractorID    types.ID  `json:"contractorId"`
	ContractorName  string    `json:"contractorName"`
	ContractorPhone string    `json:"contractorPhone"`
}

// ReceivedApplication application with worker info, as listed to the contractor
type ReceivedApplication struct {
	WorkerApplication

	WorkerName  string `json:"workerName"`
	WorkerType  string `json:"workerType"`
	WorkerPhone string `json:"workerPhone"`
	ProjectName string `json:"projectName"`
}
