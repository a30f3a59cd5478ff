package application_test

import (
	"construxflow/account"
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/domain/application"
	"construxflow/event"
	"construxflow/persistence"
	"construxflow/testinfra"
	"context"
	"sync"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Applications", func() {
	var (
		testDatabase *testinfra.TestDatabase
		db           *gorm.DB
	)

	contractor := testinfra.BuildSession(10, authority.RoleContractor)
	otherContractor := testinfra.BuildSession(20, authority.RoleContractor)

	saveWorker := func(id types.ID, workerType string) {
		Expect(db.Create(&account.User{ID: id, Name: "worker" + id.String(), Email: id.String() + "@test.com",
			Phone: "555-" + id.String(), Role: authority.RoleWorker, WorkerType: workerType,
			WorkerRoleKey: domain.RoleKey(workerType), CreateTime: types.CurrentTimestamp()}).Error).To(BeNil())
	}
	saveApplication := func(id, projectID, workerID types.ID) {
		Expect(db.Create(&domain.WorkerApplication{ID: id, ProjectID: projectID, WorkerID: workerID,
			Status: domain.StatusPending, AppliedTime: types.CurrentTimestamp()}).Error).To(BeNil())
	}
	requiredCount := func(projectID types.ID, roleKey string) int {
		r := domain.ManpowerRequirement{}
		Expect(db.Where("project_id = ? AND role_key = ?", projectID, roleKey).First(&r).Error).To(BeNil())
		return r.RequiredCount
	}
	statusOf := func(id types.ID) domain.Status {
		a := domain.WorkerApplication{}
		Expect(db.Where("id = ?", id).First(&a).Error).To(BeNil())
		return a.Status
	}

	BeforeEach(func() {
		testDatabase = testinfra.StartMysqlTestDatabase("construxflow")
		db = testDatabase.DS.GormDB(context.Background())
		Expect(db.AutoMigrate(&domain.Project{}, &domain.ManpowerRequirement{}, &domain.WorkerApplication{},
			&account.User{}, &event.EventRecord{}).Error).To(BeNil())
		persistence.ActiveDataSourceManager = testDatabase.DS

		Expect(db.Create(&account.User{ID: 10, Name: "builder", Email: "builder@test.com", Phone: "555-0010",
			Role: authority.RoleContractor, CreateTime: types.CurrentTimestamp()}).Error).To(BeNil())
		Expect(db.Create(&domain.Project{ID: 1, ContractorID: 10, Name: "tower", Location: "Pune",
			StartDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local), EndDate: time.Date(2030, 6, 1, 0, 0, 0, 0, time.Local),
			CreateTime: types.CurrentTimestamp()}).Error).To(BeNil())
		Expect(db.Create(&domain.ManpowerRequirement{ProjectID: 1, RoleKey: "mason", RoleName: "Mason", RequiredCount: 1}).Error).To(BeNil())
	})
	AfterEach(func() {
		testinfra.StopMysqlTestDatabase(testDatabase)
	})

	Describe("SubmitApplication", func() {
		It("should create pending application", func() {
			worker := testinfra.BuildSession(100, authority.RoleWorker)
			a, err := application.SubmitApplication(1, worker)
			Expect(err).To(BeNil())
			Expect(a.Status).To(Equal(domain.StatusPending))
			Expect(a.WorkerID).To(Equal(types.ID(100)))
			Expect(a.AppliedTime.Time().IsZero()).To(BeFalse())
			Expect(statusOf(a.ID)).To(Equal(domain.StatusPending))
		})

		It("should accept worker of a trade the project does not need", func() {
			saveWorker(100, "Plumber")
			_, err := application.SubmitApplication(1, testinfra.BuildSession(100, authority.RoleWorker))
			Expect(err).To(BeNil())
		})

		It("should reject second application of the same worker", func() {
			worker := testinfra.BuildSession(100, authority.RoleWorker)
			first, err := application.SubmitApplication(1, worker)
			Expect(err).To(BeNil())

			second, err := application.SubmitApplication(1, worker)
			Expect(second).To(BeNil())
			Expect(err).To(Equal(bizerror.ErrApplicationDuplicated))

			var applications []domain.WorkerApplication
			Expect(db.Find(&applications).Error).To(BeNil())
			Expect(len(applications)).To(Equal(1))
			Expect(applications[0].ID).To(Equal(first.ID))
			Expect(applications[0].Status).To(Equal(domain.StatusPending))
		})

		It("should report absent project", func() {
			_, err := application.SubmitApplication(2, testinfra.BuildSession(100, authority.RoleWorker))
			Expect(err).To(Equal(bizerror.ErrNotFound))
		})

		It("should be forbidden for other roles", func() {
			_, err := application.SubmitApplication(1, contractor)
			Expect(err).To(Equal(bizerror.ErrForbidden))
		})
	})

	Describe("DecideApplication", func() {
		It("should approve and take one vacancy of the worker trade", func() {
			saveWorker(100, " MASON ")
			saveApplication(1000, 1, 100)

			a, err := application.DecideApplication(1000, "approve", contractor)
			Expect(err).To(BeNil())
			Expect(a.Status).To(Equal(domain.StatusApproved))
			Expect(a.VacancyMatched).To(BeTrue())
			Expect(requiredCount(1, "mason")).To(Equal(0))

			stored := domain.WorkerApplication{}
			Expect(db.Where("id = ?", 1000).First(&stored).Error).To(BeNil())
			Expect(stored.Status).To(Equal(domain.StatusApproved))
			Expect(stored.VacancyMatched).To(BeTrue())

			records, err := event.QueryEvents(event.SourceApplication, 1000, db)
			Expect(err).To(BeNil())
			Expect(len(records)).To(Equal(1))
			Expect(records[0].UpdatedProperties).To(Equal(event.UpdatedProperties{
				{PropertyName: "Status", OldValue: "pending", NewValue: "approved"},
				{PropertyName: "RequiredCount", OldValue: "1", NewValue: "0"},
			}))
		})

		It("should fail with insufficient capacity and stay pending when trade is exhausted", func() {
			saveWorker(100, "Mason")
			saveWorker(101, "Mason")
			saveApplication(1000, 1, 100)
			saveApplication(1001, 1, 101)

			_, err := application.DecideApplication(1000, "approve", contractor)
			Expect(err).To(BeNil())
			a, err := application.DecideApplication(1001, "approve", contractor)
			Expect(a).To(BeNil())
			Expect(err).To(Equal(bizerror.ErrInsufficientCapacity))

			Expect(statusOf(1001)).To(Equal(domain.StatusPending))
			Expect(requiredCount(1, "mason")).To(Equal(0))
		})

		It("should approve unmatched when project does not need the trade", func() {
			saveWorker(100, "Plumber")
			saveApplication(1000, 1, 100)

			a, err := application.DecideApplication(1000, "approve", contractor)
			Expect(err).To(BeNil())
			Expect(a.Status).To(Equal(domain.StatusApproved))
			Expect(a.VacancyMatched).To(BeFalse())
			Expect(requiredCount(1, "mason")).To(Equal(1))
		})

		It("should reject without touching vacancies", func() {
			saveWorker(100, "Mason")
			saveApplication(1000, 1, 100)

			a, err := application.DecideApplication(1000, "reject", contractor)
			Expect(err).To(BeNil())
			Expect(a.Status).To(Equal(domain.StatusRejected))
			Expect(requiredCount(1, "mason")).To(Equal(1))
		})

		It("should refuse any further decision once decided", func() {
			saveWorker(100, "Mason")
			saveApplication(1000, 1, 100)

			_, err := application.DecideApplication(1000, "reject", contractor)
			Expect(err).To(BeNil())
			for _, action := range []string{"approve", "reject"} {
				_, err = application.DecideApplication(1000, action, contractor)
				Expect(err).To(Equal(bizerror.ErrStateConflict))
			}
			Expect(statusOf(1000)).To(Equal(domain.StatusRejected))
			Expect(requiredCount(1, "mason")).To(Equal(1))
		})

		It("should hide applications of projects owned by others", func() {
			saveWorker(100, "Mason")
			saveApplication(1000, 1, 100)

			_, err := application.DecideApplication(1000, "approve", otherContractor)
			Expect(err).To(Equal(bizerror.ErrNotFound))
			_, err = application.DecideApplication(9999, "approve", contractor)
			Expect(err).To(Equal(bizerror.ErrNotFound))
			Expect(statusOf(1000)).To(Equal(domain.StatusPending))
		})

		It("should reject unknown action", func() {
			saveApplication(1000, 1, 100)
			_, err := application.DecideApplication(1000, "withdraw", contractor)
			Expect(err).To(Equal(bizerror.BadParam("invalid action 'withdraw'")))
		})

		It("should let exactly one of two concurrent approvals take the last vacancy", func() {
			saveWorker(100, "Mason")
			saveWorker(101, "Mason")
			saveApplication(1000, 1, 100)
			saveApplication(1001, 1, 101)

			var wg sync.WaitGroup
			errs := make([]error, 2)
			for i, id := range []types.ID{1000, 1001} {
				wg.Add(1)
				go func(i int, id types.ID) {
					defer GinkgoRecover()
					defer wg.Done()
					_, errs[i] = application.DecideApplication(id, "approve", contractor)
				}(i, id)
			}
			wg.Wait()

			succeeded, exhausted := 0, 0
			for _, err := range errs {
				if err == nil {
					succeeded++
				} else if err == bizerror.ErrInsufficientCapacity {
					exhausted++
				}
			}
			Expect(succeeded).To(Equal(1))
			Expect(exhausted).To(Equal(1))
			Expect(requiredCount(1, "mason")).To(Equal(0))

			statuses := []domain.Status{statusOf(1000), statusOf(1001)}
			Expect(statuses).To(ConsistOf(domain.StatusApproved, domain.StatusPending))
		})

		It("should let exactly n of n+2 concurrent approvals succeed", func() {
			Expect(db.Model(&domain.ManpowerRequirement{}).Where("project_id = ?", 1).
				UpdateColumn("required_count", 3).Error).To(BeNil())
			ids := []types.ID{}
			for i := 0; i < 5; i++ {
				id := types.ID(100 + i)
				saveWorker(id, "Mason")
				saveApplication(1000+id, 1, id)
				ids = append(ids, 1000+id)
			}

			var wg sync.WaitGroup
			var mu sync.Mutex
			succeeded := 0
			for _, id := range ids {
				wg.Add(1)
				go func(id types.ID) {
					defer GinkgoRecover()
					defer wg.Done()
					if _, err := application.DecideApplication(id, "approve", contractor); err == nil {
						mu.Lock()
						succeeded++
						mu.Unlock()
					}
				}(id)
			}
			wg.Wait()

			Expect(succeeded).To(Equal(3))
			Expect(requiredCount(1, "mason")).To(Equal(0))
		})
	})

	Describe("queries", func() {
		BeforeEach(func() {
			saveWorker(100, "Mason")
			saveWorker(101, "Mason")
			saveApplication(1000, 1, 100)
			saveApplication(1001, 1, 101)
			_, err := application.DecideApplication(1000, "approve", contractor)
			Expect(err).To(BeNil())
		})

		It("should list applications of the worker with contact shared after approval", func() {
			details, err := application.QueryMyApplications(testinfra.BuildSession(100, authority.RoleWorker))
			Expect(err).To(BeNil())
			Expect(len(details)).To(Equal(1))
			Expect(details[0].ProjectName).To(Equal("tower"))
			Expect(details[0].ContractorName).To(Equal("builder"))
			Expect(details[0].ContractorPhone).To(Equal("555-0010"))

			details, err = application.QueryMyApplications(testinfra.BuildSession(101, authority.RoleWorker))
			Expect(err).To(BeNil())
			Expect(len(details)).To(Equal(1))
			Expect(details[0].ContractorPhone).To(BeEmpty())
		})

		It("should list active jobs of the worker", func() {
			jobs, err := application.QueryActiveJobs(testinfra.BuildSession(100, authority.RoleWorker))
			Expect(err).To(BeNil())
			Expect(len(jobs)).To(Equal(1))
			Expect(jobs[0].Location).To(Equal("Pune"))

			jobs, err = application.QueryActiveJobs(testinfra.BuildSession(101, authority.RoleWorker))
			Expect(err).To(BeNil())
			Expect(jobs).To(BeEmpty())
		})

		It("should list received applications of the contractor", func() {
			received, err := application.QueryReceivedApplications(contractor)
			Expect(err).To(BeNil())
			Expect(len(received)).To(Equal(2))
			for _, r := range received {
				Expect(r.ProjectName).To(Equal("tower"))
				Expect(r.WorkerType).To(Equal("Mason"))
				if r.Status == domain.StatusApproved {
					Expect(r.WorkerPhone).To(Equal("555-100"))
				} else {
					Expect(r.WorkerPhone).To(BeEmpty())
				}
			}

			received, err = application.QueryReceivedApplications(otherContractor)
			Expect(err).To(BeNil())
			Expect(received).To(BeEmpty())
		})
	})
})
