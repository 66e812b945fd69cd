package handler

import (
	"net/http"

	"bookstore-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) GetPaymentByOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uintParam(c, "orderID")
	if err != nil {
		return err
	}

	payment, err := h.paymentService.GetByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()

	payments, err := h.paymentService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()

	paymentID, err := uintParam(c, "paymentID")
	if err != nil {
		return err
	}

	payment, err := h.paymentService.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uintParam(c, "orderID")
	if err != nil {
		return err
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	payment, err := h.paymentService.Process(ctx, orderID, req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) RefundPayment(c echo.Context) error {
	ctx := c.Request().Context()

	paymentID, err := uintParam(c, "paymentID")
	if err != nil {
		return err
	}

	if err := h.paymentService.Refund(ctx, paymentID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
