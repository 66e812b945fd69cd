package server

import (
	"errors"
	"fmt"
	"net/http"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/handler"
	"bookstore-backend/internal/metrics"
	authmw "bookstore-backend/internal/middleware"
	"bookstore-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo                 *echo.Echo
	jwtSecret            string
	authHandler          *handler.AuthHandler
	catalogHandler       *handler.CatalogHandler
	cartHandler          *handler.CartHandler
	addressHandler       *handler.AddressHandler
	paymentMethodHandler *handler.PaymentMethodHandler
	orderHandler         *handler.OrderHandler
	paymentHandler       *handler.PaymentHandler
	adminHandler         *handler.AdminHandler
}

func NewServer(
	jwtSecret string,
	userService service.UserService,
	catalogService service.CatalogService,
	cartService service.CartService,
	addressService service.AddressService,
	paymentMethodService service.PaymentMethodService,
	orderService service.OrderService,
	checkoutService service.CheckoutService,
	paymentService service.PaymentService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.HTTPErrorHandler = httpErrorHandler

	s := &Server{
		echo:                 e,
		jwtSecret:            jwtSecret,
		authHandler:          handler.NewAuthHandler(userService),
		catalogHandler:       handler.NewCatalogHandler(catalogService),
		cartHandler:          handler.NewCartHandler(cartService),
		addressHandler:       handler.NewAddressHandler(addressService),
		paymentMethodHandler: handler.NewPaymentMethodHandler(paymentMethodService),
		orderHandler:         handler.NewOrderHandler(orderService, checkoutService),
		paymentHandler:       handler.NewPaymentHandler(paymentService),
		adminHandler:         handler.NewAdminHandler(userService, orderService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// -------- public --------
	auth := api.Group("/auth")
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/login", s.authHandler.Login)

	api.GET("/books", s.catalogHandler.ListBooks)
	api.GET("/books/:bookID", s.catalogHandler.GetBook)

	// -------- authenticated --------
	authed := api.Group("", authmw.AuthMiddleware(s.jwtSecret))

	cart := authed.Group("/cart")
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.PUT("/items/:cartItemID", s.cartHandler.UpdateItem)
	cart.DELETE("/items/:cartItemID", s.cartHandler.RemoveItem)
	cart.DELETE("", s.cartHandler.ClearCart)

	addresses := authed.Group("/addresses")
	addresses.GET("", s.addressHandler.ListAddresses)
	addresses.POST("", s.addressHandler.CreateAddress)
	addresses.PUT("/:addressID", s.addressHandler.UpdateAddress)
	addresses.DELETE("/:addressID", s.addressHandler.DeleteAddress)

	methods := authed.Group("/payment-methods")
	methods.GET("", s.paymentMethodHandler.ListMethods)
	methods.POST("", s.paymentMethodHandler.AddMethod)
	methods.GET("/default", s.paymentMethodHandler.GetDefaultMethod)
	methods.PUT("/:methodID/default", s.paymentMethodHandler.SetDefaultMethod)
	methods.DELETE("/:methodID", s.paymentMethodHandler.DeleteMethod)

	orders := authed.Group("/orders")
	orders.POST("/checkout", s.orderHandler.Checkout)
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:orderID", s.orderHandler.GetOrder)
	orders.POST("", s.orderHandler.CreateOrderFromCart)
	orders.DELETE("/:orderID", s.orderHandler.CancelOrder)
	orders.GET("/:orderID/payment", s.paymentHandler.GetPaymentByOrder)

	// -------- admin --------
	admin := api.Group("/admin", authmw.AuthMiddleware(s.jwtSecret), authmw.RequireAdmin())
	admin.POST("/books", s.catalogHandler.CreateBook)
	admin.PUT("/books/:bookID", s.catalogHandler.UpdateBook)
	admin.DELETE("/books/:bookID", s.catalogHandler.DeleteBook)
	admin.POST("/books/:bookID/restock", s.catalogHandler.RestockBook)
	admin.GET("/orders", s.orderHandler.ListAllOrders)
	admin.PUT("/orders/:orderID/status", s.orderHandler.UpdateOrderStatus)
	admin.POST("/orders/:orderID/payment", s.paymentHandler.ProcessPayment)
	admin.GET("/payments", s.paymentHandler.ListPayments)
	admin.GET("/payments/:paymentID", s.paymentHandler.GetPayment)
	admin.DELETE("/payments/:paymentID", s.paymentHandler.RefundPayment)
	admin.GET("/users/:userID", s.adminHandler.CustomerAccount)
	admin.GET("/me", s.adminHandler.Me)
	admin.PUT("/me/password", s.adminHandler.UpdatePassword)
}

// httpErrorHandler maps the service error taxonomy onto HTTP statuses.
// Declines and validation failures are expected outcomes; only 5xx
// responses are logged as faults.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperr.Error
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &appErr):
		status = statusForKind(appErr.Kind)
		message = appErr.Msg
	case errors.As(err, &httpErr):
		status = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	}

	if status >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if writeErr := c.JSON(status, map[string]any{
		"status":  status,
		"message": message,
	}); writeErr != nil {
		c.Logger().Error(writeErr)
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindInsufficientStock:
		return http.StatusConflict
	case apperr.KindPaymentDeclined:
		return http.StatusPaymentRequired
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
