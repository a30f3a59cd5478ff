package inventory

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/domain"
	"construxflow/event"
	"construxflow/idgen"
	"construxflow/persistence"
	"construxflow/session"
	"context"
	"strconv"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	idWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
)

var (
	QueryInventoryFunc      = QueryInventory
	CreateInventoryItemFunc = CreateInventoryItem
	UpdateInventoryItemFunc = UpdateInventoryItem
	SearchMaterialsFunc     = SearchMaterials

	LoadMaterialsFunc  = LoadMaterials
	DetailMaterialFunc = DetailMaterial
)

// QueryInventory lists items of the session supplier, newest first
func QueryInventory(s *session.Session) ([]domain.InventoryItem, error) {
	if !s.HasRole(authority.RoleSupplier) {
		return nil, bizerror.ErrForbidden
	}
	items := []domain.InventoryItem{}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where("supplier_id = ?", s.Identity.ID).Order("create_time DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func CreateInventoryItem(c *domain.InventoryItemCreation, s *session.Session) (*domain.InventoryItem, error) {
	if !s.HasRole(authority.RoleSupplier) {
		return nil, bizerror.ErrForbidden
	}
	name := strings.TrimSpace(c.MaterialName)
	unit := strings.TrimSpace(c.Unit)
	if name == "" || unit == "" {
		return nil, bizerror.BadParam("material name and unit are required")
	}
	if c.Quantity < 1 || c.PricePerUnit <= 0 {
		return nil, bizerror.BadParam("quantity and price must be positive")
	}

	item := domain.InventoryItem{
		ID:           idgen.NextID(idWorker),
		SupplierID:   s.Identity.ID,
		MaterialName: name,
		Quantity:     c.Quantity,
		Unit:         unit,
		PricePerUnit: c.PricePerUnit,
		CreateTime:   types.CurrentTimestamp(),
	}

	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceInventoryItem, item.ID, item.MaterialName, event.EventCategoryCreated,
			nil, &s.Identity, item.CreateTime, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	event.InvokeHandlers(ev)
	return &item, nil
}

// UpdateInventoryItem sets stock and price of an own item. Placed orders keep their price snapshot.
func UpdateInventoryItem(id types.ID, c *domain.InventoryItemUpdating, s *session.Session) (*domain.InventoryItem, error) {
	if !s.HasRole(authority.RoleSupplier) {
		return nil, bizerror.ErrForbidden
	}
	if c.Quantity == nil && c.PricePerUnit == nil {
		return nil, bizerror.BadParam("quantity or price is required")
	}
	if (c.Quantity != nil && *c.Quantity < 0) || (c.PricePerUnit != nil && *c.PricePerUnit < 0) {
		return nil, bizerror.BadParam("quantity and price must not be negative")
	}

	var updated domain.InventoryItem
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		item := domain.InventoryItem{}
		// locked read, a concurrent order approval must not be overwritten with a stale quantity
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("id = ? AND supplier_id = ?", id, s.Identity.ID).First(&item).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return bizerror.ErrNotFound
			}
			return err
		}

		var props event.UpdatedProperties
		changes := map[string]interface{}{}
		if c.Quantity != nil && item.Quantity != *c.Quantity {
			props = append(props, event.UpdatedProperty{PropertyName: "Quantity",
				OldValue: strconv.Itoa(item.Quantity), NewValue: strconv.Itoa(*c.Quantity)})
			changes["quantity"] = *c.Quantity
		}
		if c.PricePerUnit != nil && item.PricePerUnit != *c.PricePerUnit {
			props = append(props, event.UpdatedProperty{PropertyName: "PricePerUnit",
				OldValue: formatPrice(item.PricePerUnit), NewValue: formatPrice(*c.PricePerUnit)})
			changes["price_per_unit"] = *c.PricePerUnit
		}
		updated = item
		if c.Quantity != nil {
			updated.Quantity = *c.Quantity
		}
		if c.PricePerUnit != nil {
			updated.PricePerUnit = *c.PricePerUnit
		}
		if len(props) == 0 {
			return nil
		}

		if err := tx.Model(&domain.InventoryItem{}).Where("id = ?", id).
			Updates(changes).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceInventoryItem, id, item.MaterialName, event.EventCategoryPropertyUpdated,
			props, &s.Identity, types.CurrentTimestamp(), tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if ev != nil {
		event.InvokeHandlers(ev)
	}
	return &updated, nil
}

// SearchMaterials finds in-stock materials by name, cheapest first
func SearchMaterials(q string, s *session.Session) ([]domain.MaterialDetail, error) {
	if !s.HasRole(authority.RoleContractor) {
		return nil, bizerror.ErrForbidden
	}
	db := materialDetails(persistence.ActiveDataSourceManager.GormDB(s.Context)).Where("i.quantity > 0")
	if q = strings.TrimSpace(q); q != "" {
		db = db.Where("i.material_name LIKE ?", "%"+escapeLike(q)+"%")
	}
	materials := []domain.MaterialDetail{}
	if err := db.Order("i.price_per_unit ASC").Order("i.create_time DESC").Scan(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func materialDetails(db *gorm.DB) *gorm.DB {
	return db.Table("inventory_items i").
		Select("i.*, COALESCE(u.name, '') AS supplier_name, COALESCE(u.phone, '') AS supplier_phone").
		Joins("LEFT JOIN users u ON u.id = i.supplier_id")
}

// LoadMaterials pages through every inventory item, in id order
func LoadMaterials(page, pageSize int, ctx context.Context) ([]domain.MaterialDetail, error) {
	materials := []domain.MaterialDetail{}
	if err := materialDetails(persistence.ActiveDataSourceManager.GormDB(ctx)).Order("i.id ASC").Offset((page - 1) * pageSize).Limit(pageSize).
		Scan(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func DetailMaterial(id types.ID, ctx context.Context) (*domain.MaterialDetail, error) {
	material := domain.MaterialDetail{}
	if err := materialDetails(persistence.ActiveDataSourceManager.GormDB(ctx)).Where("i.id = ?", id).Scan(&material).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
