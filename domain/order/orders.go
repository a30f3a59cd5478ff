package order

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/domain/ledger"
	"construxflow/domain/state"
	"construxflow/event"
	"construxflow/idgen"
	"construxflow/infra/metrics"
	"construxflow/persistence"
	"construxflow/session"
	"errors"
	"strconv"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
)

var (
	PlaceOrderFunc            = PlaceOrder
	DecideOrderFunc           = DecideOrder
	QueryContractorOrdersFunc = QueryContractorOrders
	QuerySupplierOrdersFunc   = QuerySupplierOrders
	QueryAllOrdersFunc        = QueryAllOrders
)

// PlaceOrder requests material for an own project. The total price is fixed here, stock is taken on approval.
func PlaceOrder(c *domain.OrderCreation, s *session.Session) (*domain.Order, error) {
	if !s.HasRole(authority.RoleContractor) {
		return nil, bizerror.ErrForbidden
	}
	if c.Quantity <= 0 {
		return nil, bizerror.BadParam("quantity must be positive")
	}

	var o domain.Order
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		material := domain.InventoryItem{}
		if err := tx.Where("id = ?", c.MaterialID).First(&material).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}
		p := domain.Project{}
		if err := tx.Set("gorm:query_option", "LOCK IN SHARE MODE").
			Where("id = ? AND contractor_id = ?", c.ProjectID, s.Identity.ID).First(&p).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}

		o = domain.Order{
			ID:           idgen.NextID(idWorker),
			ProjectID:    p.ID,
			ContractorID: s.Identity.ID,
			SupplierID:   material.SupplierID,
			MaterialID:   material.ID,
			Quantity:     c.Quantity,
			TotalPrice:   domain.TotalPriceOf(c.Quantity, material.PricePerUnit),
			Status:       domain.StatusPending,
			OrderedTime:  types.CurrentTimestamp(),
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceOrder, o.ID, material.MaterialName, event.EventCategoryCreated,
			nil, &s.Identity, o.OrderedTime, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	event.InvokeHandlers(ev)
	return &o, nil
}

// DecideOrder approves or rejects a pending order addressed to the session supplier.
// Approval takes the ordered quantity from stock in the same transaction, or fails as a whole.
func DecideOrder(id types.ID, action string, s *session.Session) (*domain.Order, error) {
	if !s.HasRole(authority.RoleSupplier) {
		return nil, bizerror.ErrForbidden
	}

	var decided domain.Order
	var records []*event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		o := domain.Order{}
		if err := tx.Where("id = ? AND supplier_id = ?", id, s.Identity.ID).First(&o).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}
		transition, err := state.DecisionMachine.Fire(string(o.Status), action)
		if err != nil {
			return err
		}

		now := types.CurrentTimestamp()
		db := tx.Model(&domain.Order{}).Where("id = ? AND supplier_id = ? AND status = ?", id, s.Identity.ID, domain.StatusPending).
			Updates(map[string]interface{}{"status": transition.To.Name, "decide_time": now})
		if db.Error != nil {
			return db.Error
		}
		if db.RowsAffected != 1 {
			return bizerror.ErrStateConflict
		}
		decided = o
		decided.Status = domain.Status(transition.To.Name)
		decided.DecideTime = now

		materialName := ""
		props := event.StatusChanged(string(o.Status), transition.To.Name, "", "", "")
		if transition.To == state.Approved {
			remain, err := ledger.DecrementStockFunc(tx, o.MaterialID, o.Quantity)
			if err != nil {
				return err
			}
			material := domain.InventoryItem{}
			if err := tx.Where("id = ?", o.MaterialID).First(&material).Error; err != nil {
				return err
			}
			materialName = material.MaterialName
			props = event.StatusChanged(string(o.Status), transition.To.Name, "Quantity",
				strconv.Itoa(remain+o.Quantity), strconv.Itoa(remain))

			stockEvent, err := event.CreateEvent(event.SourceInventoryItem, o.MaterialID, materialName,
				event.EventCategoryPropertyUpdated, props[1:], &s.Identity, now, tx)
			if err != nil {
				return err
			}
			records = append(records, stockEvent)
		}

		orderEvent, err := event.CreateEvent(event.SourceOrder, id, materialName, event.EventCategoryStatusChanged,
			props, &s.Identity, now, tx)
		if err != nil {
			return err
		}
		records = append([]*event.EventRecord{orderEvent}, records...)
		return nil
	})
	if err != nil {
		if errors.Is(err, bizerror.ErrInsufficientCapacity) {
			metrics.RecordLedgerRejection("stock")
		}
		return nil, err
	}
	event.InvokeHandlers(records...)
	return &decided, nil
}
