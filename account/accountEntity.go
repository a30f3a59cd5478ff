package account

import (
	"github.com/fundwit/go-commons/types"
)

type User struct {
	ID     types.ID `json:"id" gorm:"primary_key"`
	Name   string   `json:"name" sql:"type:VARCHAR(100) NOT NULL"`
	Email  string   `json:"email" gorm:"unique_index:email_unique" sql:"type:VARCHAR(200) NOT NULL"`
	Secret string   `json:"-" sql:"type:VARCHAR(100) NOT NULL"`
	Phone  string   `json:"phone" sql:"type:VARCHAR(32)"`
	Role   string   `json:"role" gorm:"index:role_idx" sql:"type:VARCHAR(16) NOT NULL"`

	WorkerType    string `json:"workerType" sql:"type:VARCHAR(100)"`
	WorkerRoleKey string `json:"-" sql:"type:VARCHAR(100)"`

	ProfileImage string          `json:"profileImage" sql:"type:VARCHAR(255)"`
	Blocked      bool            `json:"blocked"`
	CreateTime   types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type UserInfo struct {
	ID           types.ID        `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Role         string          `json:"role"`
	WorkerType   string          `json:"workerType"`
	ProfileImage string          `json:"profileImage"`
	Blocked      bool            `json:"blocked"`
	CreateTime   types.Timestamp `json:"createTime"`
}

type UserRegistration struct {
	Name       string `json:"name" binding:"required,lte=100"`
	Email      string `json:"email" binding:"required,email,lte=200"`
	Password   string `json:"password" binding:"required,gte=6,lte=64"`
	Phone      string `json:"phone" binding:"lte=32"`
	Role       string `json:"role" binding:"required"`
	WorkerType string `json:"workerType" binding:"lte=100"`
}

type ProfileUpdating struct {
	Name  string  `json:"name" binding:"required,lte=100"`
	Email string  `json:"email" binding:"required,email,lte=200"`
	Phone *string `json:"phone" binding:"omitempty,lte=32"`
}

type SecretUpdating struct {
	OriginalSecret string `json:"oldPassword" binding:"required"`
	NewSecret      string `json:"newPassword" binding:"required,gte=6,lte=64"`
}

type Blocking struct {
	Block bool `json:"block"`
}

const ProfileImagesRoot = "/v1/profile-images"

// Info hides the secret, the stored object key of the profile image is exposed as its download path
func (u *User) Info() UserInfo {
	info := UserInfo{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role, WorkerType: u.WorkerType,
		Blocked: u.Blocked, CreateTime: u.CreateTime}
	if u.ProfileImage != "" {
		info.ProfileImage = ProfileImagesRoot + "/" + u.ID.String()
	}
	return info
}
