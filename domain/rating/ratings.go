package rating

import (
	"construxflow/account"
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/idgen"
	"construxflow/persistence"
	"construxflow/session"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
)

var CreateRatingFunc = CreateRating

// raterRoles lists who may rate users of a role
var raterRoles = map[string][]string{
	authority.RoleWorker:     {authority.RoleContractor},
	authority.RoleSupplier:   {authority.RoleContractor},
	authority.RoleContractor: {authority.RoleWorker, authority.RoleSupplier},
}

// CreateRating stores a rating of the session user for a user of expectedTargetRole.
// Ratings are append only, the same pair may rate each other any number of times.
func CreateRating(c *domain.RatingCreation, expectedTargetRole string, s *session.Session) (*domain.Rating, error) {
	if !s.Perms.HasAnyRole(raterRoles[expectedTargetRole]...) {
		return nil, bizerror.ErrForbidden
	}
	if c.Rating < MinRating || c.Rating > MaxRating {
		return nil, bizerror.BadParam("rating must be between 1 and 5")
	}
	if c.RatedTo == 0 {
		return nil, bizerror.BadParam("rated user is required")
	}

	r := domain.Rating{
		ID:         idgen.NextID(idWorker),
		RatedBy:    s.Identity.ID,
		RatedTo:    c.RatedTo,
		ProjectID:  c.ProjectID,
		Rating:     c.Rating,
		Review:     strings.TrimSpace(c.Review),
		CreateTime: types.CurrentTimestamp(),
	}
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		var count int
		if err := tx.Model(&account.User{}).Where("id = ? AND role = ?", c.RatedTo, expectedTargetRole).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return bizerror.ErrNotFound
		}
		return tx.Create(&r).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}
