package handler

import (
	"net/http"

	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// AdminHandler covers the account-facing admin surface: inspecting a
// customer together with their order history, and the admin's own
// profile.
type AdminHandler struct {
	userService  service.UserService
	orderService service.OrderService
}

func NewAdminHandler(userService service.UserService, orderService service.OrderService) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		orderService: orderService,
	}
}

func (h *AdminHandler) CustomerAccount(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := uintParam(c, "userID")
	if err != nil {
		return err
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CustomerAccountView{
		User:   *user,
		Orders: orders,
	})
}

func (h *AdminHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.PasswordUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.userService.UpdatePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
