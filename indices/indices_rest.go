package indices

import (
	"construxflow/session"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	PathIndexRequests = "/v1/admin/index-requests"

	indexRequestLimiter = rate.NewLimiter(rate.Every(time.Minute), 1)
)

func RegisterIndicesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group(PathIndexRequests, middleWares...).POST("", handleIndexRequest)
}

func handleIndexRequest(c *gin.Context) {
	if !indexRequestLimiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"result": "request rate limited"})
		return
	}
	started, err := ScheduleNewSyncRunFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	if !started {
		c.JSON(http.StatusOK, gin.H{"result": "already running"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": "started"})
}
