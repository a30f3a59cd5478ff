package account

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/idgen"
	"construxflow/persistence"
	"construxflow/session"
	"context"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker *sonyflake.Sonyflake
)

func init() {
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
}

var (
	RegisterUserFunc  = RegisterUser
	AuthenticateFunc  = Authenticate
	DetailProfileFunc = DetailProfile
	UpdateProfileFunc = UpdateProfile
	UpdateSecretFunc  = UpdateSecret
	FindUserFunc      = FindUser
)

func RegisterUser(c *UserRegistration, ctx context.Context) (*UserInfo, error) {
	if !authority.IsRegistrableRole(c.Role) {
		return nil, bizerror.BadParam("invalid role '" + c.Role + "'")
	}
	workerType := strings.TrimSpace(c.WorkerType)
	if c.Role == authority.RoleWorker && workerType == "" {
		return nil, bizerror.BadParam("worker type is required for workers")
	}
	if c.Role != authority.RoleWorker {
		workerType = ""
	}

	secret, err := HashSecretFunc(c.Password)
	if err != nil {
		return nil, err
	}
	user := User{
		ID:            idgen.NextID(userIdWorker),
		Name:          strings.TrimSpace(c.Name),
		Email:         strings.TrimSpace(c.Email),
		Secret:        secret,
		Phone:         strings.TrimSpace(c.Phone),
		Role:          c.Role,
		WorkerType:    workerType,
		WorkerRoleKey: domain.RoleKey(workerType),
		CreateTime:    types.CurrentTimestamp(),
	}

	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	var count int
	if err := db.Model(&User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, bizerror.ErrEmailRegistered
	}
	if err := db.Create(&user).Error; err != nil {
		if persistence.IsDuplicateEntry(err) {
			return nil, bizerror.ErrEmailRegistered
		}
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

// Authenticate resolves the account of a login request, blocked accounts are refused after the password matched
func Authenticate(login *session.LoginRequest, ctx context.Context) (*User, error) {
	user := User{}
	err := persistence.ActiveDataSourceManager.GormDB(ctx).Where("email = ?", strings.TrimSpace(login.Email)).First(&user).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrUnauthenticated
		}
		return nil, err
	}
	if !VerifyCredentialFunc(login.Password, user.Secret) {
		return nil, bizerror.ErrUnauthenticated
	}
	if user.Blocked {
		return nil, bizerror.ErrAccountBlocked
	}
	return &user, nil
}

// FindUser returns the account of id, NotFound when role is given and differs
func FindUser(id types.ID, role string, ctx context.Context) (*User, error) {
	user := User{}
	if err := persistence.ActiveDataSourceManager.GormDB(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	if role != "" && user.Role != role {
		return nil, bizerror.ErrNotFound
	}
	return &user, nil
}

func DetailProfile(s *session.Session) (*UserInfo, error) {
	user, err := FindUserFunc(s.Identity.ID, "", s.Context)
	if err != nil {
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

func UpdateProfile(c *ProfileUpdating, s *session.Session) (*UserInfo, error) {
	name := strings.TrimSpace(c.Name)
	email := strings.TrimSpace(c.Email)
	if name == "" {
		return nil, bizerror.BadParam("name is required")
	}
	changes := map[string]interface{}{"name": name, "email": email}
	if c.Phone != nil {
		phone := strings.TrimSpace(*c.Phone)
		if phone == "" {
			return nil, bizerror.BadParam("phone can not be blank")
		}
		changes["phone"] = phone
	}

	var updated User
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		var count int
		if err := tx.Model(&User{}).Where("email = ? AND id <> ?", email, s.Identity.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return bizerror.ErrEmailRegistered
		}
		db := tx.Model(&User{}).Where("id = ?", s.Identity.ID).Updates(changes)
		if db.Error != nil {
			if persistence.IsDuplicateEntry(db.Error) {
				return bizerror.ErrEmailRegistered
			}
			return db.Error
		}
		return tx.Where("id = ?", s.Identity.ID).First(&updated).Error
	})
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	session.RenameSessionsOf(updated.ID, updated.Name)
	info := updated.Info()
	return &info, nil
}

func UpdateSecret(u *SecretUpdating, s *session.Session) error {
	user, err := FindUserFunc(s.Identity.ID, "", s.Context)
	if err != nil {
		return err
	}
	if !VerifyCredentialFunc(u.OriginalSecret, user.Secret) {
		return bizerror.ErrInvalidPassword
	}
	secret, err := HashSecretFunc(u.NewSecret)
	if err != nil {
		return err
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&User{}).
		Where("id = ? AND secret = ?", user.ID, user.Secret).Update("secret", secret)
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected != 1 {
		logrus.WithField("account", user.ID).Warn("secret changed concurrently")
		return bizerror.ErrStateConflict
	}
	return nil
}

// UpdateProfileImagePath records where the profile image of the account is stored
func UpdateProfileImagePath(id types.ID, path string, ctx context.Context) error {
	db := persistence.ActiveDataSourceManager.GormDB(ctx).Model(&User{}).Where("id = ?", id).Update("profile_image", path)
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		var count int
		if err := persistence.ActiveDataSourceManager.GormDB(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return bizerror.ErrNotFound
		}
	}
	return nil
}
