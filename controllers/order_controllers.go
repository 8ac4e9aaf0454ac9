package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imprimerie/print-shop-app/models"
	"github.com/imprimerie/print-shop-app/services"
	"github.com/imprimerie/print-shop-app/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

func orderFilterFromQuery(c *gin.Context) services.OrderFilter {
	f := services.OrderFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return f
}

// CreateOrder prices and persists a new order for the authenticated client.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, _ := currentUser(c)

	var in services.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.CreateOrder(userID, in)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s created by user %d (total %.2f)",
		order.OrderNumber, userID, order.TotalPrice)
	utils.RespondJSON(c, http.StatusCreated, "Commande créée", order)
}

// GetAllOrders -> admin listing
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	list, pagination, err := oc.Orders.ListOrders(orderFilterFromQuery(c))
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{
		"data":       list,
		"pagination": pagination,
	})
}

// GetMyOrders -> the authenticated client's own orders
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, _ := currentUser(c)

	list, pagination, err := oc.Orders.ListClientOrders(userID, orderFilterFromQuery(c))
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{
		"data":       list,
		"pagination": pagination,
	})
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, role := currentUser(c)
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	order, err := oc.Orders.GetOrderByID(uint(orderID), userID, role)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> admin/employee lifecycle transition
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	userID, _ := currentUser(c)
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var body struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateOrderStatus(uint(orderID), body.Status, userID, body.Notes)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s status -> %s by user %d",
		order.OrderNumber, body.Status, userID)
	utils.RespondJSON(c, http.StatusOK, "Statut mis à jour", order)
}

// UpdateOrderMeta -> admin edits of header fields (due date, priority, ...)
func (oc *OrderController) UpdateOrderMeta(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var in services.OrderMetaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateOrderMeta(uint(orderID), in)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Commande mise à jour", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	userID, role := currentUser(c)
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	if err := oc.Orders.DeleteOrder(uint(orderID), userID, role); err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Commande supprimée", gin.H{"order_id": orderID})
}

// AddFilesToItem attaches uploaded file references to one line item.
func (oc *OrderController) AddFilesToItem(c *gin.Context) {
	userID, role := currentUser(c)
	orderID, _ := strconv.Atoi(c.Param("order_id"))
	itemIndex, err := strconv.Atoi(c.Param("item_index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Files []string `json:"files" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.AddFilesToItem(uint(orderID), itemIndex, body.Files, userID, role)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Fichiers ajoutés", order)
}

// GetOrderStats: admins see global stats, clients see their own.
func (oc *OrderController) GetOrderStats(c *gin.Context) {
	userID, role := currentUser(c)

	clientID := userID
	if role == models.RoleAdmin {
		clientID = 0
	}

	stats, err := oc.Orders.GetOrderStats(clientID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order statistics", stats)
}
