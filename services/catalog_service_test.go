package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/imprimerie/print-shop-app/models"
	"github.com/imprimerie/print-shop-app/utils"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Service{},
		&models.ServiceOption{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func cardInput() ServiceInput {
	return ServiceInput{
		Name:        "Cartes de visite",
		Category:    models.CategoryCartes,
		BasePrice:   0.08,
		Unit:        "unité",
		MinQuantity: 100,
		MaxQuantity: 5000,
		Options: []ServiceOptionInput{
			{
				Name:          "Pelliculage",
				Kind:          models.OptionKindSelect,
				Choices:       []string{"mat", "brillant"},
				PriceModifier: 0.01,
			},
		},
	}
}

func TestCreateServiceValidation(t *testing.T) {
	catalog := NewCatalogService(setupCatalogTestDB(t), nil)

	in := cardInput()
	in.Category = "stickers"
	_, err := catalog.CreateService(in)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	in = cardInput()
	in.BasePrice = -1
	_, err = catalog.CreateService(in)
	assert.ErrorIs(t, err, ErrNegativeBasePrice)

	in = cardInput()
	in.MinQuantity = 500
	in.MaxQuantity = 100
	_, err = catalog.CreateService(in)
	assert.ErrorIs(t, err, ErrInvalidQtyBounds)

	in = cardInput()
	in.Options[0].Kind = "slider"
	_, err = catalog.CreateService(in)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestCreateServiceAssignsOptionIDs(t *testing.T) {
	catalog := NewCatalogService(setupCatalogTestDB(t), nil)

	svc, err := catalog.CreateService(cardInput())
	require.NoError(t, err)
	assert.True(t, svc.IsActive)
	require.Len(t, svc.Options, 1)
	assert.NotEmpty(t, svc.Options[0].OptionID)
	assert.Equal(t, []string{"mat", "brillant"}, svc.Options[0].Choices)
}

func TestUpdateServiceKeepsOptionIDs(t *testing.T) {
	catalog := NewCatalogService(setupCatalogTestDB(t), nil)

	svc, err := catalog.CreateService(cardInput())
	require.NoError(t, err)
	originalID := svc.Options[0].OptionID

	in := cardInput()
	in.BasePrice = 0.09
	in.Options[0].OptionID = originalID
	in.Options[0].PriceModifier = 0.02
	in.Options = append(in.Options, ServiceOptionInput{
		Name: "Coins arrondis",
		Kind: models.OptionKindCheckbox,
	})

	updated, err := catalog.UpdateService(svc.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 0.09, updated.BasePrice)
	require.Len(t, updated.Options, 2)
	// The carried-over option keeps the id order items reference.
	assert.Equal(t, originalID, updated.Options[0].OptionID)
	assert.Equal(t, 0.02, updated.Options[0].PriceModifier)
	assert.NotEmpty(t, updated.Options[1].OptionID)
	assert.NotEqual(t, originalID, updated.Options[1].OptionID)
}

func TestToggleService(t *testing.T) {
	catalog := NewCatalogService(setupCatalogTestDB(t), nil)

	svc, err := catalog.CreateService(cardInput())
	require.NoError(t, err)

	toggled, err := catalog.ToggleService(svc.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = catalog.ToggleService(svc.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestCatalogChangesBroadcastToClients(t *testing.T) {
	sink := &recordingSink{}
	catalog := NewCatalogService(setupCatalogTestDB(t), sink)

	svc, err := catalog.CreateService(cardInput())
	require.NoError(t, err)

	in := cardInput()
	in.BasePrice = 0.09
	_, err = catalog.UpdateService(svc.ID, in)
	require.NoError(t, err)

	_, err = catalog.ToggleService(svc.ID)
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteService(svc.ID))

	// One catalogUpdated per mutation so connected clients refresh.
	require.Len(t, sink.broadcastEvents, 4)
	for _, event := range sink.broadcastEvents {
		assert.Equal(t, EventCatalogUpdated, event)
	}
	assert.Empty(t, sink.userEvents)
	assert.Empty(t, sink.adminEvents)
}

func TestDeleteServiceKeepsReferencedEntries(t *testing.T) {
	db := setupCatalogTestDB(t)
	catalog := NewCatalogService(db, nil)

	svc, err := catalog.CreateService(cardInput())
	require.NoError(t, err)

	// Unreferenced entries are removed together with their options.
	require.NoError(t, catalog.DeleteService(svc.ID))
	_, err = catalog.GetService(svc.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)
	var optCount int64
	db.Model(&models.ServiceOption{}).Where("service_id = ?", svc.ID).Count(&optCount)
	assert.Zero(t, optCount)

	// Referenced entries are deactivated instead.
	svc, err = catalog.CreateService(cardInput())
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Order{
		OrderNumber: "CMD260800001",
		ClientID:    1,
		Status:      models.OrderStatusPending,
		Items: []models.OrderItem{{
			ServiceID:  svc.ID,
			Quantity:   100,
			UnitPrice:  0.08,
			TotalPrice: 8.00,
		}},
	}).Error)

	err = catalog.DeleteService(svc.ID)
	assert.ErrorIs(t, err, ErrServiceReferenced)
	kept, err := catalog.GetService(svc.ID)
	require.NoError(t, err)
	assert.False(t, kept.IsActive)
}

func TestListServicesFilters(t *testing.T) {
	catalog := NewCatalogService(setupCatalogTestDB(t), nil)

	_, err := catalog.CreateService(cardInput())
	require.NoError(t, err)

	flyers := cardInput()
	flyers.Name = "Flyers A5"
	flyers.Category = models.CategoryFlyers
	inactive := false
	flyers.IsActive = &inactive
	_, err = catalog.CreateService(flyers)
	require.NoError(t, err)

	all, total, err := catalog.ListServices(ServiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), total)

	cartes, total, err := catalog.ListServices(ServiceFilter{Category: models.CategoryCartes})
	require.NoError(t, err)
	require.Len(t, cartes, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Cartes de visite", cartes[0].Name)

	active := true
	actives, _, err := catalog.ListServices(ServiceFilter{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, actives, 1)
	assert.True(t, actives[0].IsActive)

	found, _, err := catalog.ListServices(ServiceFilter{Search: "flyer"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Flyers A5", found[0].Name)
}
