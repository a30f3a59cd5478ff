package stats

import (
	"construxflow/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterStatisticsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group("/v1/admin/statistics", middleWares...).GET("", HandleQueryStatistics)
}

func HandleQueryStatistics(c *gin.Context) {
	result, err := QueryStatisticsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
