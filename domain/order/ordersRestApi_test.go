package order_test

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/domain/order"
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

var _ = Describe("OrdersRestApi", func() {
	var router *gin.Engine

	BeforeEach(func() {
		contractor := testinfra.BuildSession(10, authority.RoleContractor)
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		router.Use(func(c *gin.Context) {
			session.InjectSessionIntoGinContext(c, contractor)
		})
		order.RegisterContractorOrdersRestApis(router)
		order.RegisterSupplierOrdersRestApis(router)
		order.RegisterAdminOrdersRestApis(router)
	})

	It("should place order", func() {
		var payload *domain.OrderCreation
		order.PlaceOrderFunc = func(c *domain.OrderCreation, s *session.Session) (*domain.Order, error) {
			payload = c
			return &domain.Order{ID: 8, Quantity: c.Quantity, TotalPrice: 50, Status: domain.StatusPending}, nil
		}
		defer func() { order.PlaceOrderFunc = order.PlaceOrder }()

		req := httptest.NewRequest(http.MethodPost, "/v1/contractor/orders",
			misc.StringReader(`{"projectId":"1","materialId":"500","quantity":10}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(body).To(ContainSubstring(`"totalPrice":50`))
		Expect(*payload).To(Equal(domain.OrderCreation{ProjectID: 1, MaterialID: 500, Quantity: 10}))
	})

	It("should reject order without positive quantity", func() {
		for _, payload := range []string{
			`{"projectId":"1","materialId":"500","quantity":0}`,
			`{"projectId":"1","materialId":"500","quantity":-2}`,
			`{"projectId":"1","quantity":2}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/v1/contractor/orders", misc.StringReader(payload))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
		}
	})

	It("should decide order", func() {
		var id types.ID
		var action string
		order.DecideOrderFunc = func(i types.ID, a string, s *session.Session) (*domain.Order, error) {
			id, action = i, a
			return nil, bizerror.ErrInsufficientCapacity
		}
		defer func() { order.DecideOrderFunc = order.DecideOrder }()

		req := httptest.NewRequest(http.MethodPost, "/v1/supplier/orders/8/approve", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusConflict))
		Expect(body).To(MatchJSON(`{"code":"ledger.insufficient_capacity","message":"insufficient capacity","data":null}`))
		Expect(id).To(Equal(types.ID(8)))
		Expect(action).To(Equal("approve"))
	})

	It("should list orders", func() {
		order.QueryContractorOrdersFunc = func(s *session.Session) ([]domain.OrderDetail, error) {
			return []domain.OrderDetail{{MaterialName: "Cement"}}, nil
		}
		order.QuerySupplierOrdersFunc = func(s *session.Session) ([]domain.OrderDetail, error) {
			return []domain.OrderDetail{}, nil
		}
		order.QueryAllOrdersFunc = func(s *session.Session) ([]domain.OrderDetail, error) {
			return []domain.OrderDetail{}, nil
		}
		defer func() {
			order.QueryContractorOrdersFunc = order.QueryContractorOrders
			order.QuerySupplierOrdersFunc = order.QuerySupplierOrders
			order.QueryAllOrdersFunc = order.QueryAllOrders
		}()

		status, body, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/v1/contractor/orders", nil), router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"materialName":"Cement"`))
		for _, path := range []string{"/v1/supplier/orders", "/v1/admin/orders"} {
			status, body, _ = testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, path, nil), router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(Equal("[]"))
		}
	})
})
