package account

import (
	"construxflow/authority"
	"construxflow/persistence"
	"context"
	"os"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAdminID    = types.ID(1)
	DefaultAdminEmail = "admin@construxflow.com"
)

var (
	LoadPermFunc = loadPerms
)

// DefaultSecurityConfiguration makes sure the administrator account exists
func DefaultSecurityConfiguration() error {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return db.Transaction(func(tx *gorm.DB) error {
		admin := User{}
		err := tx.Where("id = ?", DefaultAdminID).First(&admin).Error
		if err == nil {
			return nil
		}
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		initialAdminPassword := os.ExpandEnv("${INITIAL_ADMIN_PASSWORD}")
		if initialAdminPassword == "" {
			initialAdminPassword = "admin123"
		}
		secret, err := HashSecretFunc(initialAdminPassword)
		if err != nil {
			return err
		}
		email := os.Getenv("INITIAL_ADMIN_EMAIL")
		if email == "" {
			email = DefaultAdminEmail
		}
		if err := tx.Create(&User{ID: DefaultAdminID, Name: "admin", Email: email, Secret: secret,
			Role: authority.RoleAdmin, CreateTime: types.CurrentTimestamp()}).Error; err != nil {
			return err
		}
		logrus.WithField("email", email).Info("administrator account created")
		return nil
	})
}

func loadPerms(user *User) authority.Permissions {
	return authority.PermissionsOfRole(user.Role)
}
