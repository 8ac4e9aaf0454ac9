package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/imprimerie/print-shop-app/config"
	"github.com/imprimerie/print-shop-app/database"
	"github.com/imprimerie/print-shop-app/events"
	"github.com/imprimerie/print-shop-app/models"
	"github.com/imprimerie/print-shop-app/router"
	"github.com/imprimerie/print-shop-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndOrderFlow walks the main path:
// 1. Register a client and log both sides in
// 2. Client browses the public catalog and creates an order
// 3. Admin drives the lifecycle pending -> processing -> completed -> delivered
// 4. Client sees the status notifications and the history trail
// 5. Client and admin exchange chat messages
func TestEndToEndOrderFlow(t *testing.T) {
	db := setupIntegrationDB(t)
	cfg := config.Config{
		UploadDir:  t.TempDir(),
		CORSOrigin: "*",
	}
	r := router.SetupRouter(db, cfg, events.NewHub())

	// Register + login
	w := doJSON(t, r, "POST", "/register", "", map[string]interface{}{
		"name":     "Marie Dupont",
		"email":    "marie@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	clientToken := login(t, r, "marie@example.com", "secret123")
	adminToken := login(t, r, "admin@imprimerie.local", "admin123")

	// Public catalog
	w = doJSON(t, r, "GET", "/services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Client creates an order
	w = doJSON(t, r, "POST", "/orders", clientToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"service_id": 1, "quantity": 1000, "options": map[string]interface{}{"recto-verso": true}},
		},
		"notes": "pour le salon de samedi",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	order := decodeData(t, w)
	orderID := int(order["id"].(float64))
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 130.00, order["total_price"])
	assert.Contains(t, order["order_number"], "CMD")

	// The other client's routes stay walled off: no token, no order.
	w = doJSON(t, r, "GET", fmt.Sprintf("/orders/%d", orderID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Admin walks the lifecycle
	for _, status := range []string{"processing", "completed", "delivered"} {
		w = doJSON(t, r, "PATCH", fmt.Sprintf("/admin/orders/%d/status", orderID), adminToken,
			map[string]string{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}

	// Delivered is terminal.
	w = doJSON(t, r, "PATCH", fmt.Sprintf("/admin/orders/%d/status", orderID), adminToken,
		map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The client sees the full history trail.
	w = doJSON(t, r, "GET", fmt.Sprintf("/orders/%d", orderID), clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeData(t, w)
	assert.Equal(t, "delivered", detail["status"])
	history := detail["status_history"].([]interface{})
	assert.Len(t, history, 4)

	// And the notifications that came with each step.
	w = doJSON(t, r, "GET", "/notifications", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notifs := decodeData(t, w)
	// Creation + three transitions.
	assert.Equal(t, float64(4), notifs["unread_count"])

	// Chat both ways
	w = doJSON(t, r, "GET", "/chat/conversation", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	conv := decodeData(t, w)
	convID := int(conv["id"].(float64))

	w = doJSON(t, r, "POST", fmt.Sprintf("/chat/conversations/%d/messages", convID), clientToken,
		map[string]string{"content": "Merci pour la livraison rapide !"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "GET", "/admin/chat/conversations", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Dashboard reflects the delivered order.
	w = doJSON(t, r, "GET", "/admin/dashboard/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeData(t, w)
	assert.Equal(t, float64(1), stats["total_orders"])
	assert.Equal(t, 130.00, stats["total_revenue"])
}

func TestAdminRoutesRejectClients(t *testing.T) {
	db := setupIntegrationDB(t)
	cfg := config.Config{UploadDir: t.TempDir(), CORSOrigin: "*"}
	r := router.SetupRouter(db, cfg, events.NewHub())

	w := doJSON(t, r, "POST", "/register", "", map[string]interface{}{
		"name":     "Paul",
		"email":    "paul@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	clientToken := login(t, r, "paul@example.com", "secret123")

	w = doJSON(t, r, "GET", "/admin/orders", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "POST", "/admin/services", clientToken, map[string]interface{}{
		"name": "Pirate", "category": "autres", "unit": "unité",
		"base_price": 1, "min_quantity": 1, "max_quantity": 10,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Employee accounts are regular staff logins without administrator rights;
	// order administration is walled off from them too.
	w = doJSON(t, r, "POST", "/register", "", map[string]interface{}{
		"name":     "Lucas",
		"email":    "lucas@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "lucas@example.com").
		Update("role", models.RoleEmployee).Error)
	employeeToken := login(t, r, "lucas@example.com", "secret123")

	w = doJSON(t, r, "PATCH", "/admin/orders/1/status", employeeToken,
		map[string]string{"status": "processing"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "GET", "/admin/orders", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGlobalRateLimiterAppliesToRoutes(t *testing.T) {
	db := setupIntegrationDB(t)
	cfg := config.Config{UploadDir: t.TempDir(), CORSOrigin: "*"}
	r := router.SetupRouter(db, cfg, events.NewHub())

	// 50 requests per second per IP pass, the 51st is shed.
	for i := 0; i < 50; i++ {
		w := doJSON(t, r, "GET", "/ping", "", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
	w := doJSON(t, r, "GET", "/ping", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name:     "Administrateur",
		Email:    "admin@imprimerie.local",
		Password: string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}).Error)

	require.NoError(t, db.Create(&models.Service{
		Name:        "Flyers A5",
		Category:    models.CategoryFlyers,
		BasePrice:   0.10,
		Unit:        "unité",
		MinQuantity: 100,
		MaxQuantity: 10000,
		IsActive:    true,
		Options: []models.ServiceOption{{
			OptionID:      "recto-verso",
			Name:          "Recto-verso",
			Kind:          models.OptionKindCheckbox,
			PriceModifier: 0.03,
		}},
	}).Error)
	return db
}

func doJSON(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, "POST", "/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	token, ok := data["token"].(string)
	require.True(t, ok)
	return token
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "body: %s", w.Body.String())
	return data
}
