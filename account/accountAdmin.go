package account

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/client/s3"
	"construxflow/event"
	"construxflow/persistence"
	"construxflow/session"
	"strconv"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var (
	QueryUsersFunc = QueryUsers
	BlockUserFunc  = BlockUser
	DeleteUserFunc = DeleteUser
)

// QueryUsers lists every non admin account, newest first
func QueryUsers(s *session.Session) ([]UserInfo, error) {
	if !s.HasRole(authority.RoleAdmin) {
		return nil, bizerror.ErrForbidden
	}
	var users []User
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Where("role <> ?", authority.RoleAdmin).
		Order("create_time DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	infos := make([]UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].Info())
	}
	return infos, nil
}

// BlockUser blocks or unblocks a non admin account, a blocked account loses its live sessions
func BlockUser(id types.ID, c *Blocking, s *session.Session) error {
	if !s.HasRole(authority.RoleAdmin) {
		return bizerror.ErrForbidden
	}
	var records []*event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		user := User{}
		if err := tx.Where("id = ? AND role <> ?", id, authority.RoleAdmin).First(&user).Error; err != nil {
			return err
		}
		if user.Blocked == c.Block {
			return nil
		}
		if err := tx.Model(&User{}).Where("id = ?", id).Update("blocked", c.Block).Error; err != nil {
			return err
		}
		ev, err := event.CreateEvent(event.SourceUser, user.ID, user.Email, event.EventCategoryPropertyUpdated,
			event.UpdatedProperties{{PropertyName: "Blocked",
				OldValue: strconv.FormatBool(user.Blocked), NewValue: strconv.FormatBool(c.Block)}},
			&s.Identity, types.CurrentTimestamp(), tx)
		if err != nil {
			return err
		}
		records = append(records, ev)
		return nil
	})
	if err != nil {
		return err
	}
	if c.Block {
		session.InvalidateSessionsOf(id)
	}
	event.InvokeHandlers(records...)
	return nil
}

// DeleteUser removes a non admin account. Records referencing it are kept for history.
func DeleteUser(id types.ID, s *session.Session) error {
	if !s.HasRole(authority.RoleAdmin) {
		return bizerror.ErrForbidden
	}
	user := User{}
	var records []*event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND role <> ?", id, authority.RoleAdmin).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Delete(&User{}, "id = ?", id).Error; err != nil {
			return err
		}
		ev, err := event.CreateEvent(event.SourceUser, user.ID, user.Email, event.EventCategoryDeleted, nil,
			&s.Identity, types.CurrentTimestamp(), tx)
		if err != nil {
			return err
		}
		records = append(records, ev)
		return nil
	})
	if err != nil {
		return err
	}

	session.InvalidateSessionsOf(id)
	if user.ProfileImage != "" && s3.DeleteObjectFunc != nil {
		if err := s3.DeleteObjectFunc(user.ProfileImage, s); err != nil {
			logrus.WithField("account", id).Warnf("failed to delete profile image %s: %v", user.ProfileImage, err)
		}
	}
	event.InvokeHandlers(records...)
	return nil
}
