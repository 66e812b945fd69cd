package handler

import (
	"net/http"

	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService    service.OrderService
	checkoutService service.CheckoutService
}

func NewOrderHandler(orderService service.OrderService, checkoutService service.CheckoutService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		checkoutService: checkoutService,
	}
}

// Checkout converts the caller's cart into a paid order. The user id
// always comes from the authenticated session, never the body.
func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.UserID = userID

	order, err := h.checkoutService.Checkout(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

// ListAllOrders is the admin sales history, optionally bounded by
// from/to dates. The "to" day is included in the range.
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	from, err := dateQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := dateQuery(c, "to")
	if err != nil {
		return err
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}

	orders, err := h.orderService.ListAll(ctx, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uintParam(c, "orderID")
	if err != nil {
		return err
	}

	order, err := h.orderService.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CreateOrderFromCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.CreateFromCart(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uintParam(c, "orderID")
	if err != nil {
		return err
	}

	status := c.QueryParam("status")
	order, err := h.orderService.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uintParam(c, "orderID")
	if err != nil {
		return err
	}

	if err := h.orderService.Cancel(ctx, orderID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
