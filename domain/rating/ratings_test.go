package rating_test

import (
	"construxflow/account"
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/domain/rating"
	"construxflow/persistence"
	"construxflow/testinfra"
	"context"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ratings", func() {
	var (
		testDatabase *testinfra.TestDatabase
		db           *gorm.DB
	)
	contractor := testinfra.BuildSession(10, authority.RoleContractor)
	worker := testinfra.BuildSession(20, authority.RoleWorker)

	countRatings := func() int {
		var count int
		Expect(db.Model(&domain.Rating{}).Count(&count).Error).To(BeNil())
		return count
	}

	BeforeEach(func() {
		testDatabase = testinfra.StartMysqlTestDatabase("construxflow")
		db = testDatabase.DS.GormDB(context.Background())
		Expect(db.AutoMigrate(&domain.Rating{}, &account.User{}).Error).To(BeNil())
		persistence.ActiveDataSourceManager = testDatabase.DS

		for _, u := range []account.User{
			{ID: 10, Name: "builder", Email: "builder@test.com", Role: authority.RoleContractor},
			{ID: 20, Name: "mason", Email: "mason@test.com", Role: authority.RoleWorker, WorkerType: "Mason"},
			{ID: 30, Name: "steel co", Email: "steel@test.com", Role: authority.RoleSupplier},
		} {
			u.CreateTime = types.CurrentTimestamp()
			Expect(db.Create(&u).Error).To(BeNil())
		}
	})
	AfterEach(func() {
		testinfra.StopMysqlTestDatabase(testDatabase)
	})

	It("should store rating of worker by contractor", func() {
		projectID := types.ID(1)
		r, err := rating.CreateRating(&domain.RatingCreation{RatedTo: 20, ProjectID: &projectID, Rating: 5,
			Review: " reliable "}, authority.RoleWorker, contractor)
		Expect(err).To(BeNil())
		Expect(r.RatedBy).To(Equal(types.ID(10)))
		Expect(r.Review).To(Equal("reliable"))

		stored := domain.Rating{}
		Expect(db.Where("id = ?", r.ID).First(&stored).Error).To(BeNil())
		Expect(stored.Rating).To(Equal(5))
		Expect(*stored.ProjectID).To(Equal(types.ID(1)))
	})

	It("should accept repeated ratings of the same pair", func() {
		for _, score := range []int{1, 3} {
			_, err := rating.CreateRating(&domain.RatingCreation{RatedTo: 10, Rating: score}, authority.RoleContractor, worker)
			Expect(err).To(BeNil())
		}
		Expect(countRatings()).To(Equal(2))
	})

	It("should reject out of range rating without storing anything", func() {
		for _, score := range []int{0, 6, -1} {
			_, err := rating.CreateRating(&domain.RatingCreation{RatedTo: 20, Rating: score}, authority.RoleWorker, contractor)
			Expect(err).To(Equal(bizerror.BadParam("rating must be between 1 and 5")))
		}
		Expect(countRatings()).To(BeZero())
	})

	It("should report absent target or target of another role", func() {
		_, err := rating.CreateRating(&domain.RatingCreation{RatedTo: 99, Rating: 3}, authority.RoleWorker, contractor)
		Expect(err).To(Equal(bizerror.ErrNotFound))
		_, err = rating.CreateRating(&domain.RatingCreation{RatedTo: 30, Rating: 3}, authority.RoleWorker, contractor)
		Expect(err).To(Equal(bizerror.ErrNotFound))
		Expect(countRatings()).To(BeZero())
	})

	It("should require a target", func() {
		_, err := rating.CreateRating(&domain.RatingCreation{Rating: 3}, authority.RoleSupplier, contractor)
		Expect(err).To(Equal(bizerror.BadParam("rated user is required")))
	})

	It("should forbid workers rating suppliers", func() {
		_, err := rating.CreateRating(&domain.RatingCreation{RatedTo: 30, Rating: 3}, authority.RoleSupplier, worker)
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
})
