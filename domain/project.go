package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Project struct {
	ID           types.ID `json:"id" gorm:"primary_key"`
	ContractorID types.ID `json:"contractorId" gorm:"index:contractor_idx" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Name        string `json:"name" sql:"type:VARCHAR(200) NOT NULL"`
	Location    string `json:"location" sql:"type:VARCHAR(200) NOT NULL"`
	Description string `json:"description" sql:"type:TEXT"`

	StartDate time.Time `json:"startDate" sql:"type:DATE NOT NULL"`
	EndDate   time.Time `json:"endDate" sql:"type:DATE NOT NULL"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

// ManpowerRequirement.RequiredCount is the live vacancy counter of a role on a project
type ManpowerRequirement struct {
	ProjectID types.ID `json:"projectId" gorm:"primary_key;unique_index:project_role_unique" sql:"type:BIGINT UNSIGNED NOT NULL"`
	RoleKey   string   `json:"-" gorm:"primary_key;unique_index:project_role_unique" sql:"type:VARCHAR(100) NOT NULL"`
	RoleName  string   `json:"roleName" sql:"type:VARCHAR(100) NOT NULL"`

	RequiredCount int      `json:"requiredCount" sql:"type:INT NOT NULL"`
	PaymentPerDay *float64 `json:"paymentPerDay" sql:"type:DECIMAL(12,2)"`
}

type ProjectCreation struct {
	Name        string `json:"name" binding:"required,lte=200"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required,lte=200"`
	StartDate   string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" binding:"required,datetime=2006-01-02"`

	ManpowerRequirements []ManpowerRequirementCreation `json:"manpowerRequirements" binding:"required,min=1,dive"`
}

type ManpowerRequirementCreation struct {
	RoleName      string   `json:"roleName" binding:"required,lte=100"`
	RequiredCount int      `json:"requiredCount" binding:"required,gte=1"`
	PaymentPerDay *float64 `json:"paymentPerDay" binding:"omitempty,gte=0"`
}

type ProjectDetail struct {
	Project

	WorkersCount     int `json:"workersCount"`
	MaterialsOrdered int `json:"materialsOrdered"`

	ManpowerRequirements []ManpowerRequirement `json:"manpowerRequirements"`
}

type ProjectOverview struct {
	Project

	ContractorName string `json:"contractorName"`
}

// Job is a project with open vacancies as seen by a worker
type Job struct {
	Project

	ContractorName string                `json:"contractorName"`
	AlreadyApplied bool                  `json:"alreadyApplied"`
	Roles          []ManpowerRequirement `json:"roles"`
}
