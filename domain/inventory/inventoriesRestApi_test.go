package inventory_test

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/domain/inventory"
	"construxflow/misc"
	"construxflow/session"
	"construxflow/testinfra"
	"net/http"
	"net/http/httptest"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("InventoryRestApi", func() {
	var router *gin.Engine

	BeforeEach(func() {
		supplier := testinfra.BuildSession(30, authority.RoleSupplier)
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		router.Use(func(c *gin.Context) {
			session.InjectSessionIntoGinContext(c, supplier)
		})
		inventory.RegisterInventoryRestApis(router)
		inventory.RegisterMaterialsRestApis(router)
	})

	It("should create item", func() {
		var payload *domain.InventoryItemCreation
		inventory.CreateInventoryItemFunc = func(c *domain.InventoryItemCreation, s *session.Session) (*domain.InventoryItem, error) {
			payload = c
			return &domain.InventoryItem{ID: 3, MaterialName: c.MaterialName}, nil
		}
		defer func() { inventory.CreateInventoryItemFunc = inventory.CreateInventoryItem }()

		req := httptest.NewRequest(http.MethodPost, "/v1/supplier/inventory",
			misc.StringReader(`{"materialName":"Cement","quantity":10,"unit":"bag","pricePerUnit":5.5}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(body).To(ContainSubstring(`"materialName":"Cement"`))
		Expect(*payload).To(Equal(domain.InventoryItemCreation{MaterialName: "Cement", Quantity: 10, Unit: "bag", PricePerUnit: 5.5}))
	})

	It("should reject invalid item", func() {
		for _, payload := range []string{
			`{"materialName":"Cement","quantity":0,"unit":"bag","pricePerUnit":5.5}`,
			`{"materialName":"Cement","quantity":1,"pricePerUnit":5.5}`,
			`{"materialName":"Cement","quantity":1,"unit":"bag","pricePerUnit":0}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/v1/supplier/inventory", misc.StringReader(payload))
			status, _, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
		}
	})

	It("should update item with zero quantity", func() {
		var id types.ID
		var payload *domain.InventoryItemUpdating
		inventory.UpdateInventoryItemFunc = func(i types.ID, c *domain.InventoryItemUpdating, s *session.Session) (*domain.InventoryItem, error) {
			id, payload = i, c
			return &domain.InventoryItem{ID: i}, nil
		}
		defer func() { inventory.UpdateInventoryItemFunc = inventory.UpdateInventoryItem }()

		req := httptest.NewRequest(http.MethodPut, "/v1/supplier/inventory/3",
			misc.StringReader(`{"quantity":0,"pricePerUnit":2}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(id).To(Equal(types.ID(3)))
		Expect(*payload.Quantity).To(Equal(0))

		req = httptest.NewRequest(http.MethodPut, "/v1/supplier/inventory/3", misc.StringReader(`{"pricePerUnit":2}`))
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(payload.Quantity).To(BeNil())
		Expect(*payload.PricePerUnit).To(Equal(2.0))

		req = httptest.NewRequest(http.MethodPut, "/v1/supplier/inventory/3", misc.StringReader(`{"quantity":-1}`))
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	It("should pass query to material search", func() {
		var query string
		inventory.SearchMaterialsFunc = func(q string, s *session.Session) ([]domain.MaterialDetail, error) {
			query = q
			return []domain.MaterialDetail{}, nil
		}
		defer func() { inventory.SearchMaterialsFunc = inventory.SearchMaterials }()

		status, body, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/v1/contractor/materials?q=cement", nil), router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(Equal("[]"))
		Expect(query).To(Equal("cement"))
	})
})
