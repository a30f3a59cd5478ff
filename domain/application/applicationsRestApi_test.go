package application_test

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/domain/application"
	"construxflow/session"
	"construxflow/testinfra"
	"net/http"
	"net/http/httptest"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ApplicationsRestApi", func() {
	var (
		router *gin.Engine
		worker *session.Session
	)

	BeforeEach(func() {
		worker = testinfra.BuildSession(100, authority.RoleWorker)
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		router.Use(func(c *gin.Context) {
			session.InjectSessionIntoGinContext(c, worker)
		})
		application.RegisterWorkerApplicationsRestApis(router)
		application.RegisterContractorApplicationsRestApis(router)
	})

	Describe("HandleSubmitApplication", func() {
		It("should return 201 with the created application", func() {
			var projectID types.ID
			var sess *session.Session
			application.SubmitApplicationFunc = func(id types.ID, s *session.Session) (*domain.WorkerApplication, error) {
				projectID, sess = id, s
				return &domain.WorkerApplication{ID: 9, ProjectID: id, WorkerID: s.Identity.ID, Status: domain.StatusPending}, nil
			}
			defer func() { application.SubmitApplicationFunc = application.SubmitApplication }()

			req := httptest.NewRequest(http.MethodPost, "/v1/worker/applications/3", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(ContainSubstring(`"id":"9"`))
			Expect(body).To(ContainSubstring(`"status":"pending"`))
			Expect(projectID).To(Equal(types.ID(3)))
			Expect(sess.Identity.ID).To(Equal(types.ID(100)))
		})

		It("should return 400 when project id is malformed", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/worker/applications/abc", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
		})

		It("should return 409 when already applied", func() {
			application.SubmitApplicationFunc = func(id types.ID, s *session.Session) (*domain.WorkerApplication, error) {
				return nil, bizerror.ErrApplicationDuplicated
			}
			defer func() { application.SubmitApplicationFunc = application.SubmitApplication }()

			req := httptest.NewRequest(http.MethodPost, "/v1/worker/applications/3", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body).To(MatchJSON(`{"code":"application.duplicated","message":"already applied to this project","data":null}`))
		})
	})

	Describe("HandleDecideApplication", func() {
		It("should pass id and action to service", func() {
			var id types.ID
			var action string
			application.DecideApplicationFunc = func(i types.ID, a string, s *session.Session) (*domain.WorkerApplication, error) {
				id, action = i, a
				return &domain.WorkerApplication{ID: i, Status: domain.StatusApproved, VacancyMatched: true}, nil
			}
			defer func() { application.DecideApplicationFunc = application.DecideApplication }()

			req := httptest.NewRequest(http.MethodPost, "/v1/contractor/applications/12/approve", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"status":"approved"`))
			Expect(body).To(ContainSubstring(`"vacancyMatched":true`))
			Expect(id).To(Equal(types.ID(12)))
			Expect(action).To(Equal("approve"))
		})

		It("should map service failures to http status", func() {
			cases := []struct {
				err    error
				status int
			}{
				{bizerror.ErrStateConflict, http.StatusConflict},
				{bizerror.ErrInsufficientCapacity, http.StatusConflict},
				{bizerror.ErrNotFound, http.StatusNotFound},
				{bizerror.ErrForbidden, http.StatusForbidden},
				{bizerror.BadParam("invalid action 'x'"), http.StatusBadRequest},
			}
			defer func() { application.DecideApplicationFunc = application.DecideApplication }()
			for _, c := range cases {
				err := c.err
				application.DecideApplicationFunc = func(i types.ID, a string, s *session.Session) (*domain.WorkerApplication, error) {
					return nil, err
				}
				req := httptest.NewRequest(http.MethodPost, "/v1/contractor/applications/12/reject", nil)
				status, _, _ := testinfra.ExecuteRequest(req, router)
				Expect(status).To(Equal(c.status))
			}
		})
	})

	Describe("queries", func() {
		It("should return lists", func() {
			application.QueryMyApplicationsFunc = func(s *session.Session) ([]domain.WorkerApplicationDetail, error) {
				return []domain.WorkerApplicationDetail{{ProjectName: "tower"}}, nil
			}
			application.QueryActiveJobsFunc = func(s *session.Session) ([]domain.WorkerApplicationDetail, error) {
				return []domain.WorkerApplicationDetail{}, nil
			}
			application.QueryReceivedApplicationsFunc = func(s *session.Session) ([]domain.ReceivedApplication, error) {
				return []domain.ReceivedApplication{{WorkerName: "bob"}}, nil
			}
			defer func() {
				application.QueryMyApplicationsFunc = application.QueryMyApplications
				application.QueryActiveJobsFunc = application.QueryActiveJobs
				application.QueryReceivedApplicationsFunc = application.QueryReceivedApplications
			}()

			status, body, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/v1/worker/applications", nil), router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"projectName":"tower"`))

			status, body, _ = testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/v1/worker/active-jobs", nil), router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(Equal("[]"))

			status, body, _ = testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/v1/contractor/applications", nil), router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"workerName":"bob"`))
		})
	})
})
