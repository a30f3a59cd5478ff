package inventory

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
	InventoryApiRoot = "/v1/supplier/inventory"
	MaterialsApiRoot = "/v1/contractor/materials"
)

func RegisterInventoryRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(InventoryApiRoot, middleWares...)
	g.GET("", HandleQueryInventory)
	g.POST("", HandleCreateInventoryItem)
	g.PUT(":id", HandleUpdateInventoryItem)
}

func RegisterMaterialsRestApis(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group(MaterialsApiRoot, middleWares...).GET("", HandleSearchMaterials)
}

func HandleQueryInventory(c *gin.Context) {
	result, err := QueryInventoryFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleCreateInventoryItem(c *gin.Context) {
	payload := domain.InventoryItemCreation{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := CreateInventoryItemFunc(&payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, result)
}

func HandleUpdateInventoryItem(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	payload := domain.InventoryItemUpdating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := UpdateInventoryItemFunc(id, &payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleSearchMaterials(c *gin.Context) {
	result, err := SearchMaterialsFunc(c.Query("q"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
