package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/billing"
	"curepharmax/internal/common"
	"curepharmax/internal/repositories"
	"curepharmax/internal/services"
)

// parseIntParam reads an integer query param, falling back when absent or
// malformed.
func parseIntParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// CartHandlers exposes the customer's durable cart. Every mutation loads the
// draft, applies one change, and writes it back; last write wins.
type CartHandlers struct {
	carts           billing.CartStore
	medicineService services.MedicineService
}

func NewCartHandlers(carts billing.CartStore, medicineService services.MedicineService) *CartHandlers {
	return &CartHandlers{carts: carts, medicineService: medicineService}
}

type cartView struct {
	*billing.Draft
	ItemCount  int     `json:"item_count"`
	GrandTotal float64 `json:"grand_total"`
}

func viewOf(draft *billing.Draft) cartView {
	return cartView{Draft: draft, ItemCount: draft.ItemCount(), GrandTotal: draft.GrandTotal()}
}

// Get handles GET /cart.
func (h *CartHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	draft, err := h.carts.Load(ctx, userID)
	if err != nil {
		log.Printf("Cart load failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to load cart")
	}
	return c.JSON(http.StatusOK, viewOf(draft))
}

// AddItem handles POST /cart/items. A catalog medicine_id adds (or merges)
// one unit of that medicine; a manual name/price pair adds a free-form line.
func (h *CartHandlers) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		MedicineID      string  `json:"medicine_id"`
		Name            string  `json:"name"`
		MRP             float64 `json:"mrp"`
		SaveToInventory bool    `json:"saveToInventory"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	draft, err := h.carts.Load(ctx, userID)
	if err != nil {
		log.Printf("Cart load failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to load cart")
	}

	if req.MedicineID != "" {
		medID, err := common.ValidateUUID(req.MedicineID, "medicine_id")
		if err != nil {
			return common.SendValidationError(c, "medicine_id", err.Error())
		}
		med, err := h.medicineService.GetByID(ctx, medID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return common.SendNotFoundError(c, "Medicine")
			}
			log.Printf("Medicine lookup failed for %s: %v", medID, err)
			return common.SendServerError(c, "Failed to add item")
		}
		draft.AddCatalogItem(med)
	} else {
		if _, err := draft.AddManualItem(req.Name, req.MRP, req.SaveToInventory); err != nil {
			return common.SendClientError(c, err.Error())
		}
	}

	if err := h.carts.Save(ctx, userID, draft); err != nil {
		log.Printf("Cart save failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to save cart")
	}
	return c.JSON(http.StatusOK, viewOf(draft))
}

// UpdateItem handles PUT /cart/items/:id. Omitted fields keep their current
// values; quantity zero removes the line.
func (h *CartHandlers) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Quantity     *int     `json:"quantity"`
		MRP          *float64 `json:"mrp"`
		Discount     *float64 `json:"discount"`
		ReminderDays *int     `json:"reminder_days"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	draft, err := h.carts.Load(ctx, userID)
	if err != nil {
		log.Printf("Cart load failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to load cart")
	}

	itemID := c.Param("id")
	apply := func(err error) error {
		if errors.Is(err, billing.ErrItemNotFound) {
			return common.SendNotFoundError(c, "Cart item")
		}
		return nil
	}

	if req.Quantity != nil {
		if resp := apply(draft.SetQuantity(itemID, *req.Quantity)); resp != nil {
			return resp
		}
	}
	if req.MRP != nil {
		if resp := apply(draft.SetUnitPrice(itemID, *req.MRP)); resp != nil {
			return resp
		}
	}
	if req.Discount != nil {
		if resp := apply(draft.SetDiscount(itemID, *req.Discount)); resp != nil {
			return resp
		}
	}
	if req.ReminderDays != nil {
		if resp := apply(draft.SetReminderDays(itemID, *req.ReminderDays)); resp != nil {
			return resp
		}
	}

	if err := h.carts.Save(ctx, userID, draft); err != nil {
		log.Printf("Cart save failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to save cart")
	}
	return c.JSON(http.StatusOK, viewOf(draft))
}

// RemoveItem handles DELETE /cart/items/:id. Removing an absent line is a
// no-op, mirroring the draft semantics.
func (h *CartHandlers) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	draft, err := h.carts.Load(ctx, userID)
	if err != nil {
		log.Printf("Cart load failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to load cart")
	}

	draft.RemoveItem(c.Param("id"))

	if err := h.carts.Save(ctx, userID, draft); err != nil {
		log.Printf("Cart save failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to save cart")
	}
	return c.JSON(http.StatusOK, viewOf(draft))
}

// SetCustomer handles PUT /cart/customer: checkout details saved with the
// draft between visits.
func (h *CartHandlers) SetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name            string `json:"name"`
		Phone           string `json:"phone"`
		PaymentMode     string `json:"paymentMode"`
		ShippingAddress string `json:"shippingAddress"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !validPaymentMode(req.PaymentMode) {
		return common.SendValidationError(c, "paymentMode", "Unknown payment mode")
	}

	draft, err := h.carts.Load(ctx, userID)
	if err != nil {
		log.Printf("Cart load failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to load cart")
	}

	draft.CustomerName = req.Name
	draft.CustomerPhone = req.Phone
	draft.ShippingAddress = req.ShippingAddress
	if req.PaymentMode != "" {
		draft.PaymentMode = req.PaymentMode
	}

	if err := h.carts.Save(ctx, userID, draft); err != nil {
		log.Printf("Cart save failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to save cart")
	}
	return c.JSON(http.StatusOK, viewOf(draft))
}

// Clear handles DELETE /cart.
func (h *CartHandlers) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.carts.Clear(ctx, userID); err != nil {
		log.Printf("Cart clear failed for user %s: %v", userID, err)
		return common.SendServerError(c, "Failed to clear cart")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Cart cleared"})
}
