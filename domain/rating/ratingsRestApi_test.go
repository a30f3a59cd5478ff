package rating_test

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/domain/rating"
	"construxflow/misc"
	"construxflow/session"
	"construxflow/testinfra"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("RatingsRestApi", func() {
	var router *gin.Engine

	BeforeEach(func() {
		contractor := testinfra.BuildSession(10, authority.RoleContractor)
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		router.Use(func(c *gin.Context) {
			session.InjectSessionIntoGinContext(c, contractor)
		})
		rating.RegisterContractorRatingsRestApis(router)
		rating.RegisterWorkerRatingsRestApis(router)
		rating.RegisterSupplierRatingsRestApis(router)
	})

	It("should route each path to its target role", func() {
		var targetRole string
		rating.CreateRatingFunc = func(c *domain.RatingCreation, role string, s *session.Session) (*domain.Rating, error) {
			targetRole = role
			return &domain.Rating{RatedTo: c.RatedTo, Rating: c.Rating}, nil
		}
		defer func() { rating.CreateRatingFunc = rating.CreateRating }()

		for path, role := range map[string]string{
			"/v1/contractor/ratings/workers":   authority.RoleWorker,
			"/v1/contractor/ratings/suppliers": authority.RoleSupplier,
			"/v1/worker/ratings/contractors":   authority.RoleContractor,
			"/v1/supplier/ratings/contractors": authority.RoleContractor,
		} {
			req := httptest.NewRequest(http.MethodPost, path, misc.StringReader(`{"ratedTo":"20","rating":4,"review":"ok"}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(ContainSubstring(`"rating":4`))
			Expect(targetRole).To(Equal(role))
		}
	})

	It("should return 400 for out of range rating", func() {
		rating.CreateRatingFunc = func(c *domain.RatingCreation, role string, s *session.Session) (*domain.Rating, error) {
			return nil, bizerror.BadParam("rating must be between 1 and 5")
		}
		defer func() { rating.CreateRatingFunc = rating.CreateRating }()

		req := httptest.NewRequest(http.MethodPost, "/v1/contractor/ratings/workers",
			misc.StringReader(`{"ratedTo":"20","rating":6}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"rating must be between 1 and 5","data":null}`))
	})
})
