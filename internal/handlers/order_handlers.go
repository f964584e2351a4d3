package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/billing"
	"curepharmax/internal/common"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
	"curepharmax/internal/services"
)

// OrderHandlers handles the online storefront order lifecycle.
type OrderHandlers struct {
	orderService services.OrderService
	authService  services.AuthService
}

func NewOrderHandlers(orderService services.OrderService, authService services.AuthService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService, authService: authService}
}

// SubmitOrder handles POST /submit-order. The customer's cart becomes a
// pending online order; stock is not touched until an admin approves it.
func (h *OrderHandlers) SubmitOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Customer struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		} `json:"customer"`
		Items           []*billing.LineItem `json:"items"`
		PaymentMode     string              `json:"paymentMode"`
		ShippingAddress string              `json:"shippingAddress"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !validPaymentMode(req.PaymentMode) {
		return common.SendValidationError(c, "paymentMode", "Unknown payment mode")
	}
	if err := validateLineItems(req.Items); err != nil {
		return common.SendClientError(c, err.Error())
	}

	draft := billing.NewDraft()
	draft.CustomerName = req.Customer.Name
	draft.CustomerPhone = req.Customer.Phone
	draft.ShippingAddress = req.ShippingAddress
	draft.Items = req.Items
	if req.PaymentMode != "" {
		draft.PaymentMode = req.PaymentMode
	} else {
		draft.PaymentMode = models.PaymentModeCOD
	}

	order, err := h.orderService.SubmitOrder(ctx, userID, draft)
	if err != nil {
		if errors.Is(err, billing.ErrIncompleteOrder) {
			return common.SendClientError(c, "Missing customer information or items")
		}
		if errors.Is(err, billing.ErrInvalidLineItem) {
			return common.SendClientError(c, err.Error())
		}
		log.Printf("Order submission failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to submit order")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Order placed successfully",
		"invoiceId": order.ID,
		"status":    order.Status,
	})
}

// OrderStatus handles GET /order-status/:invoiceId, the endpoint behind the
// customer's 5-second status poll.
func (h *OrderHandlers) OrderStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("invoiceId"), "invoiceId")
	if err != nil {
		return common.SendValidationError(c, "invoiceId", err.Error())
	}

	status, err := h.orderService.GetStatus(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Order")
		}
		log.Printf("Order status lookup failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to fetch order status")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"status": status})
}

// ListOnline handles GET /online-orders for the admin console. An optional
// status query filters the list.
func (h *OrderHandlers) ListOnline(c echo.Context) error {
	status := models.OrderStatus(strings.TrimSpace(c.QueryParam("status")))
	switch status {
	case "", models.OrderStatusPending, models.OrderStatusApproved, models.OrderStatusRejected:
	default:
		return common.SendValidationError(c, "status", "Unknown order status")
	}

	limit, offset, err := common.ValidatePaginationParams(
		parseIntParam(c.QueryParam("limit"), 0),
		parseIntParam(c.QueryParam("offset"), 0),
	)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	orders, err := h.orderService.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		log.Printf("Online order list failed: %v", err)
		return common.SendServerError(c, "Failed to list orders")
	}
	if orders == nil {
		orders = []*models.OnlineOrder{}
	}
	return c.JSON(http.StatusOK, orders)
}

// MyOrders handles GET /my-orders: every online order placed under the
// logged-in customer's phone number.
func (h *OrderHandlers) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		log.Printf("User lookup failed for %s: %v", userID, err)
		return common.SendServerError(c, "Failed to load orders")
	}

	orders, err := h.orderService.ListByPhone(ctx, user.Phone)
	if err != nil {
		log.Printf("Order history failed for %s: %v", user.Phone, err)
		return common.SendServerError(c, "Failed to load orders")
	}
	if orders == nil {
		orders = []*models.OnlineOrder{}
	}
	return c.JSON(http.StatusOK, orders)
}

// Approve handles PUT /orders/:id/approve.
func (h *OrderHandlers) Approve(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.orderService.Approve(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendNotFoundError(c, "Order")
		case errors.Is(err, repositories.ErrInvalidTransition):
			return common.SendClientError(c, "Only pending orders can be approved")
		case errors.Is(err, repositories.ErrInsufficientStock):
			return common.SendClientError(c, "Not enough stock to approve this order")
		}
		log.Printf("Order approval failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to approve order")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order approved"})
}

// Reject handles PUT /orders/:id/reject.
func (h *OrderHandlers) Reject(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.orderService.Reject(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendNotFoundError(c, "Order")
		case errors.Is(err, repositories.ErrInvalidTransition):
			return common.SendClientError(c, "Only pending orders can be rejected")
		}
		log.Printf("Order rejection failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to reject order")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order rejected"})
}

// Delete handles DELETE /orders/:id/delete. Works in any state and destroys
// the record.
func (h *OrderHandlers) Delete(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.orderService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Order")
		}
		log.Printf("Order delete failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to delete order")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order deleted"})
}

// PendingCount handles GET /pending-orders-count, the endpoint behind the
// admin's 15-second badge poll.
func (h *OrderHandlers) PendingCount(c echo.Context) error {
	count, err := h.orderService.CountPending(c.Request().Context())
	if err != nil {
		log.Printf("Pending count failed: %v", err)
		return common.SendServerError(c, "Failed to count pending orders")
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}
