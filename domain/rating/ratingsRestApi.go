package rating

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterContractorRatingsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/contractor/ratings", middleWares...)
	g.POST("/workers", handleCreateRating(authority.RoleWorker))
	g.POST("/suppliers", handleCreateRating(authority.RoleSupplier))
}

func RegisterWorkerRatingsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group("/v1/worker/ratings", middleWares...).POST("/contractors", handleCreateRating(authority.RoleContractor))
}

func RegisterSupplierRatingsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group("/v1/supplier/ratings", middleWares...).POST("/contractors", handleCreateRating(authority.RoleContractor))
}

func handleCreateRating(targetRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := domain.RatingCreation{}
		if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		result, err := CreateRatingFunc(&payload, targetRole, session.ExtractSessionFromGinContext(c))
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusCreated, result)
	}
}
