package handler

import (
	"net/http"

	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type AddressHandler struct {
	addressService service.AddressService
}

func NewAddressHandler(addressService service.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

func (h *AddressHandler) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addresses, err := h.addressService.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, addresses)
}

func (h *AddressHandler) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.AddressPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	address, err := h.addressService.Create(ctx, userID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, address)
}

func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := uintParam(c, "addressID")
	if err != nil {
		return err
	}

	var req dto.AddressPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	address, err := h.addressService.Update(ctx, userID, addressID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, address)
}

func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := uintParam(c, "addressID")
	if err != nil {
		return err
	}

	if err := h.addressService.Delete(ctx, userID, addressID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
