package order

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
	ContractorOrdersApiRoot = "/v1/contractor/orders"
	SupplierOrdersApiRoot   = "/v1/supplier/orders"
	AdminOrdersApiRoot      = "/v1/admin/orders"
)

func RegisterContractorOrdersRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(ContractorOrdersApiRoot, middleWares...)
	g.GET("", HandleQueryContractorOrders)
	g.POST("", HandlePlaceOrder)
}

func RegisterSupplierOrdersRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(SupplierOrdersApiRoot, middleWares...)
	g.GET("", HandleQuerySupplierOrders)
	g.POST(":id/:action", HandleDecideOrder)
}

func RegisterAdminOrdersRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group(AdminOrdersApiRoot, middleWares...).GET("", HandleQueryAllOrders)
}

func HandlePlaceOrder(c *gin.Context) {
	payload := domain.OrderCreation{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := PlaceOrderFunc(&payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, result)
}

func HandleDecideOrder(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := DecideOrderFunc(id, c.Param("action"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleQueryContractorOrders(c *gin.Context) {
	result, err := QueryContractorOrdersFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleQuerySupplierOrders(c *gin.Context) {
	result, err := QuerySupplierOrdersFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleQueryAllOrders(c *gin.Context) {
	result, err := QueryAllOrdersFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
