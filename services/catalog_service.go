package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/imprimerie/print-shop-app/models"
)

// CatalogService manages the print-service catalog. Services referenced by
// orders are never hard-deleted; deactivation is the removal path so that
// historical orders keep resolving their catalog entry.
type CatalogService struct {
	db     *gorm.DB
	events EventSink
}

func NewCatalogService(db *gorm.DB, events EventSink) *CatalogService {
	return &CatalogService{db: db, events: events}
}

// broadcastChange tells every connected client the public catalog moved so they
// can refresh their cached listing.
func (cs *CatalogService) broadcastChange(serviceID uint) {
	if cs.events != nil {
		cs.events.Broadcast(EventCatalogUpdated, map[string]interface{}{
			"service_id": serviceID,
		})
	}
}

// ServiceFilter narrows catalog listings.
type ServiceFilter struct {
	Category string
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

// ServiceInput carries create/update payloads after binding.
type ServiceInput struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Category    string               `json:"category" binding:"required"`
	BasePrice   float64              `json:"base_price"`
	Unit        string               `json:"unit" binding:"required"`
	MinQuantity int                  `json:"min_quantity"`
	MaxQuantity int                  `json:"max_quantity"`
	Options     []ServiceOptionInput `json:"options"`
	ImageURL    *string              `json:"image_url"`
	IsActive    *bool                `json:"is_active"`
	SortOrder   int                  `json:"sort_order"`
}

type ServiceOptionInput struct {
	OptionID      string   `json:"option_id"`
	Name          string   `json:"name" binding:"required"`
	Kind          string   `json:"kind" binding:"required"`
	Choices       []string `json:"choices"`
	PriceModifier float64  `json:"price_modifier"`
	Required      bool     `json:"required"`
}

func (in *ServiceInput) validate() error {
	if !models.IsValidCategory(in.Category) {
		return ErrInvalidCategory
	}
	if in.BasePrice < 0 {
		return ErrNegativeBasePrice
	}
	if in.MinQuantity < 1 || in.MaxQuantity < in.MinQuantity {
		return ErrInvalidQtyBounds
	}
	for _, opt := range in.Options {
		if !models.IsValidOptionKind(opt.Kind) {
			return NewAppError(400, "type d'option invalide: "+opt.Kind)
		}
	}
	return nil
}

// GetService returns one catalog entry with its ordered options.
func (cs *CatalogService) GetService(id uint) (*models.Service, error) {
	var svc models.Service
	err := cs.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	}).First(&svc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

// IsQuantityInRange checks the catalog quantity bounds for one service.
func (cs *CatalogService) IsQuantityInRange(svc *models.Service, qty int) bool {
	return qty >= svc.MinQuantity && qty <= svc.MaxQuantity
}

// ListServices returns a filtered, paginated catalog page and the total count.
func (cs *CatalogService) ListServices(f ServiceFilter) ([]models.Service, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}

	query := cs.db.Model(&models.Service{})
	if f.Category != "" && f.Category != "all" {
		query = query.Where("category = ?", f.Category)
	}
	if f.IsActive != nil {
		query = query.Where("is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var services []models.Service
	err := query.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	}).
		Order("sort_order asc, created_at desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&services).Error
	if err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

// CreateService validates and persists a new catalog entry.
func (cs *CatalogService) CreateService(in ServiceInput) (*models.Service, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	svc := models.Service{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		BasePrice:   in.BasePrice,
		Unit:        in.Unit,
		MinQuantity: in.MinQuantity,
		MaxQuantity: in.MaxQuantity,
		ImageURL:    in.ImageURL,
		IsActive:    true,
		SortOrder:   in.SortOrder,
		Options:     buildOptions(in.Options),
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}

	if err := cs.db.Create(&svc).Error; err != nil {
		return nil, err
	}
	cs.broadcastChange(svc.ID)
	return cs.GetService(svc.ID)
}

// UpdateService replaces the mutable fields and the option list. Option rows
// keep their OptionID when the payload carries one, so existing order items
// keep resolving their selections.
func (cs *CatalogService) UpdateService(id uint, in ServiceInput) (*models.Service, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	svc, err := cs.GetService(id)
	if err != nil {
		return nil, err
	}

	err = cs.db.Transaction(func(tx *gorm.DB) error {
		svc.Name = in.Name
		svc.Description = in.Description
		svc.Category = in.Category
		svc.BasePrice = in.BasePrice
		svc.Unit = in.Unit
		svc.MinQuantity = in.MinQuantity
		svc.MaxQuantity = in.MaxQuantity
		svc.ImageURL = in.ImageURL
		svc.SortOrder = in.SortOrder
		if in.IsActive != nil {
			svc.IsActive = *in.IsActive
		}
		svc.UpdatedAt = time.Now()

		if err := tx.Omit("Options").Save(svc).Error; err != nil {
			return err
		}

		if err := tx.Where("service_id = ?", svc.ID).Delete(&models.ServiceOption{}).Error; err != nil {
			return err
		}
		options := buildOptions(in.Options)
		for i := range options {
			options[i].ServiceID = svc.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cs.broadcastChange(id)
	return cs.GetService(id)
}

// ToggleService flips the active flag.
func (cs *CatalogService) ToggleService(id uint) (*models.Service, error) {
	svc, err := cs.GetService(id)
	if err != nil {
		return nil, err
	}
	if err := cs.db.Model(svc).Update("is_active", !svc.IsActive).Error; err != nil {
		return nil, err
	}
	svc.IsActive = !svc.IsActive
	cs.broadcastChange(svc.ID)
	return svc, nil
}

// DeleteService hard-deletes only when no order item references the service;
// otherwise it deactivates and reports Conflict so the caller knows the entry
// was kept for historical orders.
func (cs *CatalogService) DeleteService(id uint) error {
	svc, err := cs.GetService(id)
	if err != nil {
		return err
	}

	var refs int64
	if err := cs.db.Model(&models.OrderItem{}).Where("service_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		if err := cs.db.Model(svc).Update("is_active", false).Error; err != nil {
			return err
		}
		cs.broadcastChange(id)
		return ErrServiceReferenced
	}

	if err := cs.db.Select("Options").Delete(svc).Error; err != nil {
		return err
	}
	cs.broadcastChange(id)
	return nil
}

func buildOptions(inputs []ServiceOptionInput) []models.ServiceOption {
	options := make([]models.ServiceOption, 0, len(inputs))
	for i, in := range inputs {
		optionID := in.OptionID
		if optionID == "" {
			optionID = uuid.NewString()
		}
		options = append(options, models.ServiceOption{
			OptionID:      optionID,
			Name:          in.Name,
			Kind:          in.Kind,
			Choices:       in.Choices,
			PriceModifier: in.PriceModifier,
			Required:      in.Required,
			SortOrder:     i,
		})
	}
	return options
}
