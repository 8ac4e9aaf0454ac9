package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/imprimerie/print-shop-app/models"
	"github.com/imprimerie/print-shop-app/utils"
)

// Legal status transitions. Cancellation is reachable from any non-terminal
// state; delivered and cancelled are terminal.
var orderTransitions = map[string][]string{
	models.OrderStatusDraft:      {models.OrderStatusPending, models.OrderStatusCancelled},
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

// OrderService owns the order aggregate and its lifecycle: pricing item
// requests into frozen line items, order numbering, status transitions with
// an append-only history, and the notifications/events each mutation emits.
type OrderService struct {
	db            *gorm.DB
	catalog       *CatalogService
	pricing       *PricingEngine
	notifications *NotificationService
	events        EventSink
	// AllowStatusOverride lets administrators set transitions outside the
	// table (manual correction mode). Off by default.
	AllowStatusOverride bool

	now func() time.Time
}

func NewOrderService(db *gorm.DB, catalog *CatalogService, pricing *PricingEngine, notifications *NotificationService, events EventSink) *OrderService {
	return &OrderService{
		db:            db,
		catalog:       catalog,
		pricing:       pricing,
		notifications: notifications,
		events:        events,
		now:           time.Now,
	}
}

type OrderItemRequest struct {
	ServiceID uint                   `json:"service_id" binding:"required"`
	Quantity  int                    `json:"quantity" binding:"required"`
	Options   map[string]interface{} `json:"options"`
	Files     []string               `json:"files"`
	Notes     string                 `json:"notes"`
}

type CreateOrderInput struct {
	Items    []OrderItemRequest `json:"items" binding:"required"`
	DueDate  *time.Time         `json:"due_date"`
	Notes    string             `json:"notes"`
	Priority string             `json:"priority"`
}

type OrderFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateOrder validates and prices every requested item against the catalog,
// freezes the computed prices, assigns an order number and persists the whole
// aggregate in one transaction. Any item failure aborts the entire creation:
// no order, no numbering side effect, no notification.
func (s *OrderService) CreateOrder(clientID uint, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.IsValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	now := s.now()
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		items := make([]models.OrderItem, 0, len(in.Items))

		for _, req := range in.Items {
			var svc models.Service
			err := tx.Preload("Options", func(db *gorm.DB) *gorm.DB {
				return db.Order("sort_order asc, id asc")
			}).First(&svc, req.ServiceID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			if err != nil {
				return err
			}
			if !svc.IsActive {
				return fmt.Errorf("%w: %s", ErrServiceInactive, svc.Name)
			}
			if !s.catalog.IsQuantityInRange(&svc, req.Quantity) {
				return ErrInvalidQuantity
			}
			if err := checkRequiredOptions(&svc, req.Options); err != nil {
				return err
			}

			linePrice, err := s.pricing.Calculate(&svc, req.Quantity, req.Options)
			if err != nil {
				return err
			}

			options := req.Options
			if options == nil {
				options = map[string]interface{}{}
			}
			items = append(items, models.OrderItem{
				ServiceID:  svc.ID,
				Quantity:   req.Quantity,
				UnitPrice:  svc.BasePrice,
				TotalPrice: linePrice,
				Options:    options,
				Files:      req.Files,
				Notes:      req.Notes,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}

		number, err := s.nextOrderNumber(tx, now)
		if err != nil {
			return err
		}

		order = models.Order{
			OrderNumber:   number,
			ClientID:      clientID,
			Items:         items,
			Status:        models.OrderStatusPending,
			DueDate:       in.DueDate,
			Priority:      priority,
			Notes:         in.Notes,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: models.PaymentMethodCash,
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
			StatusHistory: []models.StatusHistory{{
				Status:      models.OrderStatusPending,
				ChangedByID: clientID,
				Notes:       "Commande créée",
				ChangedAt:   now,
			}},
		}
		order.TotalPrice = Round2(order.RecalculateTotal())
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := s.loadOrder(order.ID)
	if err != nil {
		return nil, err
	}

	s.notifyQuietly(clientID, "Nouvelle commande",
		fmt.Sprintf("Commande #%s créée avec succès", created.OrderNumber),
		models.NotificationSuccess, &created.ID)

	if s.events != nil {
		s.events.EmitToAdmins(EventNewOrder, map[string]interface{}{
			"order_id":     created.ID,
			"order_number": created.OrderNumber,
			"client_id":    created.ClientID,
			"total_price":  created.TotalPrice,
		})
	}

	return created, nil
}

// nextOrderNumber produces CMD{YY}{MM}{NNNNN} from the locked per-month
// counter row. Must run inside the creation transaction.
func (s *OrderService) nextOrderNumber(tx *gorm.DB, t time.Time) (string, error) {
	period := t.Format("0601") // YYMM

	// Row locking backs concurrent creations on mysql; sqlite serializes
	// writers on its own and rejects FOR UPDATE.
	query := tx.Where("period = ?", period)
	if tx.Dialector.Name() == "mysql" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var counter models.OrderCounter
	err := query.First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = models.OrderCounter{Period: period, Seq: 0}
		if err := tx.Create(&counter).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	counter.Seq++
	if err := tx.Model(&models.OrderCounter{}).
		Where("period = ?", period).
		Update("seq", counter.Seq).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("CMD%s%05d", period, counter.Seq), nil
}

// GetOrderByID enforces the read-ownership rule: only the owning client or an
// administrator may read an order.
func (s *OrderService) GetOrderByID(orderID, actorID uint, role string) (*models.Order, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && order.ClientID != actorID {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOrders is the admin listing with status filter and order-number search.
func (s *OrderService) ListOrders(f OrderFilter) ([]models.Order, Pagination, error) {
	return s.listOrders(0, f)
}

// ListClientOrders lists one client's own orders.
func (s *OrderService) ListClientOrders(clientID uint, f OrderFilter) ([]models.Order, Pagination, error) {
	return s.listOrders(clientID, f)
}

func (s *OrderService) listOrders(clientID uint, f OrderFilter) ([]models.Order, Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}

	query := s.db.Model(&models.Order{})
	if clientID != 0 {
		query = query.Where("client_id = ?", clientID)
	}
	if f.Status != "" && f.Status != "all" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		query = query.Where("order_number LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var orders []models.Order
	err := query.Preload("Items").Preload("Items.Service").Preload("Client").
		Order("created_at desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return orders, NewPagination(f.Page, f.Limit, total), nil
}

// UpdateOrderStatus applies one lifecycle transition: mutate status, append
// exactly one history entry, persist, notify the client, emit orderUpdated to
// the client and all administrators. Transitions outside the table are
// rejected unless AllowStatusOverride is set.
func (s *OrderService) UpdateOrderStatus(orderID uint, newStatus string, actorID uint, notes string) (*models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if oldStatus != newStatus && !s.AllowStatusOverride {
		if models.IsTerminalStatus(oldStatus) || !CanTransition(oldStatus, newStatus) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, oldStatus, newStatus)
		}
	}

	now := s.now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]interface{}{
				"status":     newStatus,
				"version":    order.Version + 1,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}
		return tx.Create(&models.StatusHistory{
			OrderID:     order.ID,
			Status:      newStatus,
			ChangedByID: actorID,
			Notes:       notes,
			ChangedAt:   now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}

	notifType := models.NotificationInfo
	if newStatus == models.OrderStatusCancelled {
		notifType = models.NotificationWarning
	}
	s.notifyQuietly(updated.ClientID, "Mise à jour de commande",
		fmt.Sprintf("Votre commande #%s est maintenant: %s", updated.OrderNumber, models.StatusLabels[newStatus]),
		notifType, &updated.ID)

	if s.events != nil {
		payload := map[string]interface{}{
			"order_id":     updated.ID,
			"order_number": updated.OrderNumber,
			"old_status":   oldStatus,
			"new_status":   newStatus,
		}
		s.events.EmitToUser(updated.ClientID, EventOrderUpdated, payload)
		s.events.EmitToAdmins(EventOrderUpdated, payload)
	}

	return updated, nil
}

// DeleteOrder: administrators may delete any order; a client may delete only
// their own order and only while it is still a draft.
func (s *OrderService) DeleteOrder(orderID, actorID uint, role string) error {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return err
	}

	if role != models.RoleAdmin {
		if order.ClientID != actorID || order.Status != models.OrderStatusDraft {
			return ErrForbidden
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.StatusHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, order.ID).Error
	})
}

// AddFilesToItem appends opaque file references to the addressed item. Price
// and status are untouched; the order version moves so concurrent mutations
// are detected.
func (s *OrderService) AddFilesToItem(orderID uint, itemIndex int, fileRefs []string, actorID uint, role string) (*models.Order, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && order.ClientID != actorID {
		return nil, ErrForbidden
	}
	if itemIndex < 0 || itemIndex >= len(order.Items) {
		return nil, ErrItemIndexOutOfRange
	}

	item := &order.Items[itemIndex]
	item.Files = append(item.Files, fileRefs...)
	now := s.now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]interface{}{
				"version":    order.Version + 1,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}
		return tx.Model(&models.OrderItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"files":      item.Files,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.loadOrder(orderID)
}

// OrderMetaInput carries the admin-editable header fields. Nil means "leave
// unchanged".
type OrderMetaInput struct {
	DueDate       *time.Time `json:"due_date"`
	Priority      *string    `json:"priority"`
	Notes         *string    `json:"notes"`
	AssignedToID  *uint      `json:"assigned_to_id"`
	PaymentStatus *string    `json:"payment_status"`
	PaymentMethod *string    `json:"payment_method"`
}

// UpdateOrderMeta updates header fields without touching items or status.
func (s *OrderService) UpdateOrderMeta(orderID uint, in OrderMetaInput) (*models.Order, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"version":    order.Version + 1,
		"updated_at": s.now(),
	}
	if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}
	if in.Priority != nil {
		if !models.IsValidPriority(*in.Priority) {
			return nil, ErrInvalidPriority
		}
		updates["priority"] = *in.Priority
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.AssignedToID != nil {
		updates["assigned_to_id"] = *in.AssignedToID
	}
	if in.PaymentStatus != nil {
		updates["payment_status"] = *in.PaymentStatus
	}
	if in.PaymentMethod != nil {
		updates["payment_method"] = *in.PaymentMethod
	}

	res := s.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrVersionConflict
	}
	return s.loadOrder(orderID)
}

// StatusStat is one row of the per-status order statistics.
type StatusStat struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// GetOrderStats returns counts and revenue grouped by status, over all orders
// or one client's (clientID == 0 means all).
func (s *OrderService) GetOrderStats(clientID uint) (map[string]StatusStat, error) {
	stats := map[string]StatusStat{
		models.OrderStatusDraft:      {},
		models.OrderStatusPending:    {},
		models.OrderStatusProcessing: {},
		models.OrderStatusCompleted:  {},
		models.OrderStatusDelivered:  {},
		models.OrderStatusCancelled:  {},
	}

	query := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(total_price), 0) as revenue").
		Group("status")
	if clientID != 0 {
		query = query.Where("client_id = ?", clientID)
	}

	rows := []struct {
		Status  string
		Count   int64
		Revenue float64
	}{}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		if _, known := stats[row.Status]; known {
			stats[row.Status] = StatusStat{Count: row.Count, Revenue: row.Revenue}
		}
	}
	return stats, nil
}

func (s *OrderService) loadOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("Items.Service").
		Preload("Client").
		Preload("AssignedTo").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at asc, id asc")
		}).
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// notifyQuietly persists and emits a notification; failures are logged and
// never abort the mutation that triggered them.
func (s *OrderService) notifyQuietly(userID uint, title, message, notifType string, orderID *uint) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Create(userID, title, message, notifType, orderID); err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("notification failed for user %d: %v", userID, err)
		}
	}
}

func checkRequiredOptions(svc *models.Service, selected map[string]interface{}) error {
	for _, opt := range svc.Options {
		if !opt.Required {
			continue
		}
		value, supplied := selected[opt.OptionID]
		if !supplied || isEmpty(value) {
			return fmt.Errorf("%w: %s", ErrMissingOption, opt.Name)
		}
	}
	return nil
}
