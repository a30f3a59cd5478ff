package avatar

import (
	"bytes"
	"construxflow/account"
	"construxflow/bizerror"
	"construxflow/client/s3"
	"construxflow/session"
	"io"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

const MaxImageSize = 5 << 20

var (
	DetailProfileImageFunc = DetailProfileImage
	UploadProfileImageFunc = UploadProfileImage

	updateProfileImagePathFunc = account.UpdateProfileImagePath
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

func objectKey(id types.ID, ext string) string {
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return "profile-images/" + id.String() + ext
}

// DetailProfileImage returns the image content and its content type
func DetailProfileImage(id types.ID, s *session.Session) ([]byte, string, error) {
	user, err := account.FindUserFunc(id, "", s.Context)
	if err != nil {
		return nil, "", err
	}
	if user.ProfileImage == "" {
		return nil, "", bizerror.ErrNotFound
	}
	r, err := s3.GetObjectFunc(user.ProfileImage, s)
	if err != nil {
		if s3.IsNoSuchKey(err) {
			return nil, "", bizerror.ErrNotFound
		}
		return nil, "", err
	}
	defer r.Close()
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	return data, imageTypes[filepath.Ext(user.ProfileImage)], nil
}

// UploadProfileImage stores a JPG or PNG image of at most MaxImageSize bytes as the profile image of the session account
func UploadProfileImage(filename string, size int64, r io.Reader, s *session.Session) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", bizerror.ErrInvalidImage
	}
	if size > MaxImageSize {
		return "", bizerror.ErrImageTooLarge
	}

	data, err := ioutil.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxImageSize {
		return "", bizerror.ErrImageTooLarge
	}
	if http.DetectContentType(data) != contentType {
		return "", bizerror.ErrInvalidImage
	}

	user, err := account.FindUserFunc(s.Identity.ID, "", s.Context)
	if err != nil {
		return "", err
	}
	key := objectKey(user.ID, ext)
	if err := s3.PutObjectFunc(key, bytes.NewReader(data), s, oss.ContentType(contentType)); err != nil {
		return "", err
	}
	if err := updateProfileImagePathFunc(user.ID, key, s.Context); err != nil {
		return "", err
	}
	if user.ProfileImage != "" && user.ProfileImage != key {
		if err := s3.DeleteObjectFunc(user.ProfileImage, s); err != nil {
			logrus.WithField("account", user.ID).Warnf("failed to delete replaced profile image %s: %v", user.ProfileImage, err)
		}
	}
	return account.ProfileImagesRoot + "/" + user.ID.String(), nil
}
