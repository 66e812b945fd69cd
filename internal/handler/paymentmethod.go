package handler

import (
	"net/http"

	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentMethodHandler struct {
	paymentMethodService service.PaymentMethodService
}

func NewPaymentMethodHandler(paymentMethodService service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		paymentMethodService: paymentMethodService,
	}
}

func (h *PaymentMethodHandler) ListMethods(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	methods, err := h.paymentMethodService.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, methods)
}

func (h *PaymentMethodHandler) AddMethod(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.PaymentMethodPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	method, err := h.paymentMethodService.Add(ctx, userID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, method)
}

func (h *PaymentMethodHandler) GetDefaultMethod(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	method, err := h.paymentMethodService.GetDefault(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, method)
}

func (h *PaymentMethodHandler) SetDefaultMethod(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	methodID, err := uintParam(c, "methodID")
	if err != nil {
		return err
	}

	method, err := h.paymentMethodService.SetDefault(ctx, userID, methodID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, method)
}

func (h *PaymentMethodHandler) DeleteMethod(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	methodID, err := uintParam(c, "methodID")
	if err != nil {
		return err
	}

	if err := h.paymentMethodService.Delete(ctx, userID, methodID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
