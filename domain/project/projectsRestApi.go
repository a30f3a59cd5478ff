package project

import (
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/misc"
	"construxflow/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	ProjectsApiRoot      = "/v1/contractor/projects"
	JobsApiRoot          = "/v1/worker/jobs"
	AdminProjectsApiRoot = "/v1/admin/projects"
)

func RegisterProjectsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	projects := r.Group(ProjectsApiRoot, middleWares...)
	projects.GET("", HandleQueryProjects)
	projects.POST("", HandleCreateProject)
	projects.GET(":id", HandleDetailProject)
	projects.DELETE(":id", HandleDeleteProject)
}

func RegisterJobsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group(JobsApiRoot, middleWares...).GET("", HandleQueryJobs)
}

func RegisterAdminProjectsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group(AdminProjectsApiRoot, middleWares...).GET("", HandleQueryAllProjects)
}

func HandleQueryProjects(c *gin.Context) {
	result, err := QueryProjectsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleCreateProject(c *gin.Context) {
	payload := domain.ProjectCreation{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := CreateProjectFunc(&payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, result)
}

func HandleDetailProject(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := DetailProjectFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleDeleteProject(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteProjectFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func HandleQueryJobs(c *gin.Context) {
	result, err := QueryJobsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleQueryAllProjects(c *gin.Context) {
	result, err := QueryAllProjectsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
