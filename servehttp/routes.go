package servehttp

import (
	"construxflow/account"
	"construxflow/authority"
	"construxflow/avatar"
	"construxflow/bizerror"
	"construxflow/domain/application"
	"construxflow/domain/inventory"
	"construxflow/domain/order"
	"construxflow/domain/project"
	"construxflow/domain/rating"
	"construxflow/domain/stats"
	"construxflow/indices"
	"construxflow/indices/search"
	"construxflow/infra/metrics"
	"construxflow/infra/tracing"
	"construxflow/misc"
	"construxflow/session"
	"construxflow/sessions"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Options struct {
	// SearchEnabled mounts the full text endpoints backed by elasticsearch
	SearchEnabled bool
}

func BuildEngine(opts Options) *gin.Engine {
	engine := gin.Default()
	engine.Use(tracing.TracingIngress(), metrics.HTTPMetrics(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, misc.ServiceName())
	})
	metrics.RegisterMetricsEndpoint(engine)
	RegisterRoutes(engine, opts)
	return engine
}

func RegisterRoutes(engine *gin.Engine, opts Options) {
	authenticated := session.SimpleAuthFilter()
	as := func(role string) []gin.HandlerFunc {
		return []gin.HandlerFunc{authenticated, session.RoleFilter(role)}
	}

	account.RegisterUsersRestAPI(engine)
	sessions.RegisterSessionsHandler(engine)
	sessions.RegisterSessionHandler(engine, authenticated)
	account.RegisterProfileRestAPI(engine, authenticated)
	avatar.RegisterProfileImageRestAPI(engine, authenticated)

	contractor := as(authority.RoleContractor)
	project.RegisterProjectsRestApis(engine, contractor...)
	application.RegisterContractorApplicationsRestApis(engine, contractor...)
	inventory.RegisterMaterialsRestApis(engine, contractor...)
	order.RegisterContractorOrdersRestApis(engine, contractor...)
	rating.RegisterContractorRatingsRestApis(engine, contractor...)

	worker := as(authority.RoleWorker)
	project.RegisterJobsRestApis(engine, worker...)
	application.RegisterWorkerApplicationsRestApis(engine, worker...)
	rating.RegisterWorkerRatingsRestApis(engine, worker...)

	supplier := as(authority.RoleSupplier)
	inventory.RegisterInventoryRestApis(engine, supplier...)
	order.RegisterSupplierOrdersRestApis(engine, supplier...)
	rating.RegisterSupplierRatingsRestApis(engine, supplier...)

	admin := as(authority.RoleAdmin)
	account.RegisterUserAdminRestAPI(engine, admin...)
	project.RegisterAdminProjectsRestApis(engine, admin...)
	order.RegisterAdminOrdersRestApis(engine, admin...)
	stats.RegisterStatisticsRestApis(engine, admin...)

	if opts.SearchEnabled {
		indices.RegisterIndicesRestAPI(engine, admin...)
		search.RegisterMaterialSearchRestAPI(engine, authenticated)
	}
}
