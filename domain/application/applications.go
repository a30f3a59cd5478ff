package application

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/domain/ledger"
	"construxflow/domain/state"
	"construxflow/event"
	"construxflow/idgen"
	"construxflow/infra/metrics"
	"construxflow/persistence"
	"construxflow/session"
	"errors"
	"strconv"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
)

var (
	SubmitApplicationFunc         = SubmitApplication
	DecideApplicationFunc         = DecideApplication
	QueryMyApplicationsFunc       = QueryMyApplications
	QueryActiveJobsFunc           = QueryActiveJobs
	QueryReceivedApplicationsFunc = QueryReceivedApplications
)

// SubmitApplication applies the session worker to a project, once per project.
// The trade of the worker is not matched against the project here, only on approval.
func SubmitApplication(projectID types.ID, s *session.Session) (*domain.WorkerApplication, error) {
	if !s.HasRole(authority.RoleWorker) {
		return nil, bizerror.ErrForbidden
	}

	application := domain.WorkerApplication{
		ID:          idgen.NextID(idWorker),
		ProjectID:   projectID,
		WorkerID:    s.Identity.ID,
		Status:      domain.StatusPending,
		AppliedTime: types.CurrentTimestamp(),
	}

	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		p := domain.Project{}
		if err := tx.Set("gorm:query_option", "LOCK IN SHARE MODE").Where("id = ?", projectID).First(&p).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}
		var count int
		if err := tx.Model(&domain.WorkerApplication{}).Where("project_id = ? AND worker_id = ?", projectID, s.Identity.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return bizerror.ErrApplicationDuplicated
		}
		if err := tx.Create(&application).Error; err != nil {
			if persistence.IsDuplicateEntry(err) {
				return bizerror.ErrApplicationDuplicated
			}
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceApplication, application.ID, p.Name, event.EventCategoryCreated,
			nil, &s.Identity, application.AppliedTime, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	event.InvokeHandlers(ev)
	return &application, nil
}

type decidingApplication struct {
	domain.WorkerApplication

	ProjectName   string
	WorkerRoleKey string
}

// DecideApplication approves or rejects a pending application to a project owned by the session contractor.
// Approval takes one vacancy of the worker's trade in the same transaction: an exhausted trade rolls back
// and leaves the application pending, a trade the project never asked for is approved unmatched.
func DecideApplication(id types.ID, action string, s *session.Session) (*domain.WorkerApplication, error) {
	if !s.HasRole(authority.RoleContractor) {
		return nil, bizerror.ErrForbidden
	}

	var decided domain.WorkerApplication
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		d := decidingApplication{}
		if err := tx.Table("worker_applications wa").
			Select("wa.*, p.name AS project_name, COALESCE(u.worker_role_key, '') AS worker_role_key").
			Joins("JOIN projects p ON p.id = wa.project_id").
			Joins("LEFT JOIN users u ON u.id = wa.worker_id").
			Where("wa.id = ? AND p.contractor_id = ?", id, s.Identity.ID).
			Scan(&d).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}

		transition, err := state.DecisionMachine.Fire(string(d.Status), action)
		if err != nil {
			return err
		}

		now := types.CurrentTimestamp()
		db := tx.Model(&domain.WorkerApplication{}).Where("id = ? AND status = ?", id, domain.StatusPending).
			Updates(map[string]interface{}{"status": transition.To.Name, "decide_time": now, "vacancy_matched": false})
		if db.Error != nil {
			return db.Error
		}
		if db.RowsAffected != 1 {
			return bizerror.ErrStateConflict
		}

		decided = d.WorkerApplication
		decided.Status = domain.Status(transition.To.Name)
		decided.DecideTime = now
		props := event.StatusChanged(string(d.Status), transition.To.Name, "", "", "")

		if transition.To == state.Approved {
			remain, err := ledger.DecrementVacancyFunc(tx, d.ProjectID, d.WorkerRoleKey)
			switch {
			case errors.Is(err, ledger.ErrNoVacancyRow):
				logrus.WithField("application", id).WithField("project", d.ProjectID).WithField("role", d.WorkerRoleKey).
					Warn("approved without matching manpower requirement")
			case err != nil:
				return err
			default:
				if err := tx.Model(&domain.WorkerApplication{}).Where("id = ?", id).
					UpdateColumn("vacancy_matched", true).Error; err != nil {
					return err
				}
				decided.VacancyMatched = true
				props = event.StatusChanged(string(d.Status), transition.To.Name, "RequiredCount",
					strconv.Itoa(remain+1), strconv.Itoa(remain))
			}
		}

		ev, err = event.CreateEvent(event.SourceApplication, id, d.ProjectName, event.EventCategoryStatusChanged,
			props, &s.Identity, now, tx)
		return err
	})
	if err != nil {
		if errors.Is(err, bizerror.ErrInsufficientCapacity) {
			metrics.RecordLedgerRejection("vacancy")
		}
		return nil, err
	}
	event.InvokeHandlers(ev)
	return &decided, nil
}
