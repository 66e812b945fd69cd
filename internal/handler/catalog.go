package handler

import (
	"net/http"

	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/repository"
	"bookstore-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.BookFilter{
		Title:  c.QueryParam("title"),
		Author: c.QueryParam("author"),
		Genre:  c.QueryParam("genre"),
	}

	books, err := h.catalogService.List(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, books)
}

func (h *CatalogHandler) GetBook(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := uintParam(c, "bookID")
	if err != nil {
		return err
	}

	book, err := h.catalogService.GetByID(ctx, bookID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

func (h *CatalogHandler) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.BookView
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	book, err := h.catalogService.Create(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, book)
}

func (h *CatalogHandler) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := uintParam(c, "bookID")
	if err != nil {
		return err
	}

	var req dto.BookView
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	book, err := h.catalogService.Update(ctx, bookID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

func (h *CatalogHandler) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := uintParam(c, "bookID")
	if err != nil {
		return err
	}

	if err := h.catalogService.Delete(ctx, bookID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) RestockBook(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := uintParam(c, "bookID")
	if err != nil {
		return err
	}

	var req dto.RestockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	book, err := h.catalogService.Restock(ctx, bookID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}
