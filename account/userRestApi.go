package account

import (
	"construxflow/bizerror"
	"construxflow/misc"
	"construxflow/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterUsersRestAPI(r *gin.Engine) {
	r.POST("/v1/users", handleRegisterUser)
}

func RegisterProfileRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/profile", middleWares...)
	g.GET("", handleDetailProfile)
	g.PUT("", handleUpdateProfile)
	g.PUT("/secret", handleUpdateSecret)
}

func RegisterUserAdminRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/admin/users", middleWares...)
	g.GET("", handleQueryUsers)
	g.POST("/:id/block", handleBlockUser)
	g.DELETE("/:id", handleDeleteUser)
}

func handleRegisterUser(c *gin.Context) {
	creation := UserRegistration{}
	if err := c.ShouldBindJSON(&creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	user, err := RegisterUserFunc(&creation, c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, user)
}

func handleDetailProfile(c *gin.Context) {
	user, err := DetailProfileFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, user)
}

func handleUpdateProfile(c *gin.Context) {
	updating := ProfileUpdating{}
	if err := c.ShouldBindJSON(&updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	user, err := UpdateProfileFunc(&updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, user)
}

func handleUpdateSecret(c *gin.Context) {
	updating := SecretUpdating{}
	if err := c.ShouldBindJSON(&updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := UpdateSecretFunc(&updating, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func handleQueryUsers(c *gin.Context) {
	users, err := QueryUsersFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, users)
}

func handleBlockUser(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	blocking := Blocking{}
	if err := c.ShouldBindJSON(&blocking); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := BlockUserFunc(id, &blocking, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func handleDeleteUser(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteUserFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
