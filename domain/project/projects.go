package project

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/event"
	"construxflow/idgen"
	"construxflow/persistence"
	"construxflow/session"
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

const dateLayout = "2006-01-02"

var (
	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
)

var (
	QueryProjectsFunc    = QueryProjects
	CreateProjectFunc    = CreateProject
	DetailProjectFunc    = DetailProject
	DeleteProjectFunc    = DeleteProject
	QueryAllProjectsFunc = QueryAllProjects
	QueryJobsFunc        = QueryJobs
)

func CreateProject(c *domain.ProjectCreation, s *session.Session) (*domain.ProjectDetail, error) {
	if !s.HasRole(authority.RoleContractor) {
		return nil, bizerror.ErrForbidden
	}

	name := strings.TrimSpace(c.Name)
	location := strings.TrimSpace(c.Location)
	if name == "" || location == "" {
		return nil, bizerror.BadParam("name and location are required")
	}
	startDate, err := time.ParseInLocation(dateLayout, c.StartDate, time.Local)
	if err != nil {
		return nil, &bizerror.ErrBadParam{Cause: err}
	}
	endDate, err := time.ParseInLocation(dateLayout, c.EndDate, time.Local)
	if err != nil {
		return nil, &bizerror.ErrBadParam{Cause: err}
	}
	if endDate.Before(startDate) {
		return nil, bizerror.BadParam("end date must not be before start date")
	}
	if len(c.ManpowerRequirements) == 0 {
		return nil, bizerror.BadParam("at least one manpower requirement is required")
	}

	p := domain.Project{
		ID:           idgen.NextID(idWorker),
		ContractorID: s.Identity.ID,
		Name:         name,
		Location:     location,
		Description:  strings.TrimSpace(c.Description),
		StartDate:    startDate,
		EndDate:      endDate,
		CreateTime:   types.CurrentTimestamp(),
	}

	keys := map[string]bool{}
	requirements := make([]domain.ManpowerRequirement, 0, len(c.ManpowerRequirements))
	for _, r := range c.ManpowerRequirements {
		key := domain.RoleKey(r.RoleName)
		if key == "" {
			return nil, bizerror.BadParam("role name is required")
		}
		if r.RequiredCount < 1 {
			return nil, bizerror.BadParam("required count of '" + r.RoleName + "' must be positive")
		}
		if keys[key] {
			return nil, bizerror.BadParam("duplicated role '" + strings.TrimSpace(r.RoleName) + "'")
		}
		keys[key] = true
		requirements = append(requirements, domain.ManpowerRequirement{ProjectID: p.ID, RoleKey: key,
			RoleName: strings.TrimSpace(r.RoleName), RequiredCount: r.RequiredCount, PaymentPerDay: r.PaymentPerDay})
	}

	var ev *event.EventRecord
	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		for i := range requirements {
			if err := tx.Create(&requirements[i]).Error; err != nil {
				return err
			}
		}
		ev, err = event.CreateEvent(event.SourceProject, p.ID, p.Name, event.EventCategoryCreated, nil,
			&s.Identity, p.CreateTime, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	event.InvokeHandlers(ev)

	return &domain.ProjectDetail{Project: p, ManpowerRequirements: requirements}, nil
}

// QueryProjects lists own projects, newest first, with workers and materials counters
func QueryProjects(s *session.Session) ([]domain.ProjectDetail, error) {
	if !s.HasRole(authority.RoleContractor) {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var projects []domain.Project
	if err := db.Where("contractor_id = ?", s.Identity.ID).Order("create_time DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return completeDetails(projects, db)
}

func DetailProject(id types.ID, s *session.Session) (*domain.ProjectDetail, error) {
	if !s.HasRole(authority.RoleContractor) {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	p := domain.Project{}
	if err := db.Where("id = ? AND contractor_id = ?", id, s.Identity.ID).First(&p).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	details, err := completeDetails([]domain.Project{p}, db)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// DeleteProject removes an own project together with its manpower requirements.
// Projects with pending applications or orders are kept, those must be decided first.
func DeleteProject(id types.ID, s *session.Session) error {
	if !s.HasRole(authority.RoleContractor) {
		return bizerror.ErrForbidden
	}
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		p := domain.Project{}
		// exclusive lock, order placing and applying hold a shared lock on the project row
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("id = ? AND contractor_id = ?", id, s.Identity.ID).First(&p).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}
		var pending int
		if err := tx.Model(&domain.WorkerApplication{}).Where("project_id = ? AND status = ?", id, domain.StatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return bizerror.ErrProjectInUse
		}
		if err := tx.Model(&domain.Order{}).Where("project_id = ? AND status = ?", id, domain.StatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return bizerror.ErrProjectInUse
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.ManpowerRequirement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&domain.Project{}).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceProject, p.ID, p.Name, event.EventCategoryDeleted, nil,
			&s.Identity, types.CurrentTimestamp(), tx)
		return err
	})
	if err != nil {
		return err
	}
	event.InvokeHandlers(ev)
	return nil
}

// QueryAllProjects lists every project with its contractor name
func QueryAllProjects(s *session.Session) ([]domain.ProjectOverview, error) {
	if !s.HasRole(authority.RoleAdmin) {
		return nil, bizerror.ErrForbidden
	}
	var projects []domain.ProjectOverview
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Table("projects p").
		Select("p.*, COALESCE(u.name, '') AS contractor_name").
		Joins("LEFT JOIN users u ON u.id = p.contractor_id").
		Order("p.create_time DESC").Scan(&projects).Error; err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []domain.ProjectOverview{}
	}
	return projects, nil
}

// QueryJobs lists projects which did not end yet and still have open vacancies
func QueryJobs(s *session.Session) ([]domain.Job, error) {
	if !s.HasRole(authority.RoleWorker) {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	var jobs []domain.Job
	if err := db.Table("projects p").
		Select("p.*, COALESCE(u.name, '') AS contractor_name").
		Joins("LEFT JOIN users u ON u.id = p.contractor_id").
		Where("p.end_date >= ?", today).
		Where("EXISTS (SELECT 1 FROM manpower_requirements r WHERE r.project_id = p.id AND r.required_count > 0)").
		Order("p.create_time DESC").Scan(&jobs).Error; err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return []domain.Job{}, nil
	}

	ids := make([]types.ID, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	var requirements []domain.ManpowerRequirement
	if err := db.Where("project_id IN (?) AND required_count > 0", ids).Order("role_name ASC").Find(&requirements).Error; err != nil {
		return nil, err
	}
	var applied []types.ID
	if err := db.Model(&domain.WorkerApplication{}).Where("worker_id = ? AND project_id IN (?)", s.Identity.ID, ids).
		Pluck("project_id", &applied).Error; err != nil {
		return nil, err
	}
	appliedSet := map[types.ID]bool{}
	for _, id := range applied {
		appliedSet[id] = true
	}
	for i := range jobs {
		jobs[i].AlreadyApplied = appliedSet[jobs[i].ID]
		jobs[i].Roles = []domain.ManpowerRequirement{}
		for _, r := range requirements {
			if r.ProjectID == jobs[i].ID {
				jobs[i].Roles = append(jobs[i].Roles, r)
			}
		}
	}
	return jobs, nil
}

func completeDetails(projects []domain.Project, db *gorm.DB) ([]domain.ProjectDetail, error) {
	details := make([]domain.ProjectDetail, 0, len(projects))
	if len(projects) == 0 {
		return details, nil
	}
	ids := make([]types.ID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	workers, err := countApproved(db, "worker_applications", ids)
	if err != nil {
		return nil, err
	}
	materials, err := countApproved(db, "orders", ids)
	if err != nil {
		return nil, err
	}
	var requirements []domain.ManpowerRequirement
	if err := db.Where("project_id IN (?)", ids).Order("role_name ASC").Find(&requirements).Error; err != nil {
		return nil, err
	}

	for _, p := range projects {
		detail := domain.ProjectDetail{Project: p, WorkersCount: workers[p.ID], MaterialsOrdered: materials[p.ID],
			ManpowerRequirements: []domain.ManpowerRequirement{}}
		for _, r := range requirements {
			if r.ProjectID == p.ID {
				detail.ManpowerRequirements = append(detail.ManpowerRequirements, r)
			}
		}
		details = append(details, detail)
	}
	return details, nil
}

type projectCount struct {
	ProjectID types.ID
	Total     int
}

func countApproved(db *gorm.DB, table string, ids []types.ID) (map[types.ID]int, error) {
	var counts []projectCount
	if err := db.Table(table).Select("project_id, COUNT(*) AS total").
		Where("project_id IN (?) AND status = ?", ids, domain.StatusApproved).
		Group("project_id").Scan(&counts).Error; err != nil {
		return nil, err
	}
	result := map[types.ID]int{}
	for _, c := range counts {
		result[c.ProjectID] = c.Total
	}
	return result, nil
}
