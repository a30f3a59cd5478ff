package application

import (
	"construxflow/bizerror"
	"construxflow/misc"
	"construxflow/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterWorkerApplicationsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/worker", middleWares...)
	g.POST("/applications/:projectId", HandleSubmitApplication)
	g.GET("/applications", HandleQueryMyApplications)
	g.GET("/active-jobs", HandleQueryActiveJobs)
}

func RegisterContractorApplicationsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/contractor/applications", middleWares...)
	g.GET("", HandleQueryReceivedApplications)
	g.POST("/:id/:action", HandleDecideApplication)
}

func HandleSubmitApplication(c *gin.Context) {
	projectID, err := misc.BindingPathParamID(c, "projectId")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := SubmitApplicationFunc(projectID, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, result)
}

func HandleDecideApplication(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := DecideApplicationFunc(id, c.Param("action"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleQueryMyApplications(c *gin.Context) {
	result, err := QueryMyApplicationsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleQueryActiveJobs(c *gin.Context) {
	result, err := QueryActiveJobsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleQueryReceivedApplications(c *gin.Context) {
	result, err := QueryReceivedApplicationsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
