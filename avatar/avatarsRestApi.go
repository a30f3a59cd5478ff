package avatar

import (
	"construxflow/account"
	"construxflow/bizerror"
	"construxflow/misc"
	"construxflow/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterProfileImageRestAPI images are readable by anyone, uploading requires the given middlewares
func RegisterProfileImageRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.GET(account.ProfileImagesRoot+"/:id", handleGetProfileImage)

	g := r.Group("/v1/profile", middleWares...)
	g.POST("/image", handleUploadProfileImage)
}

func handleGetProfileImage(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	data, contentType, err := DetailProfileImageFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.Data(http.StatusOK, contentType, data)
}

func handleUploadProfileImage(c *gin.Context) {
	fileHeader, err := c.FormFile("profileImage")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	file, err := fileHeader.Open()
	if err != nil {
		panic(err)
	}
	defer file.Close()

	url, err := UploadProfileImageFunc(fileHeader.Filename, fileHeader.Size, file, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
