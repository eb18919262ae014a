package adapters

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// EchoAdapter mounts listeners on an Echo v4 server
type EchoAdapter struct {
	engine      *echo.Echo
	middlewares []echo.MiddlewareFunc
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo, middlewares ...echo.MiddlewareFunc) *EchoAdapter {
	return &EchoAdapter{engine: e, middlewares: middlewares}
}

// NewDefaultEchoAdapter creates a new Echo adapter with default Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	return NewEchoAdapter(echo.New())
}

// Name returns the framework name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// Mount routes POST requests on path to handler
func (ea *EchoAdapter) Mount(path string, handler http.Handler) {
	ea.engine.POST(path, echo.WrapHandler(handler), ea.middlewares...)
}

// Engine returns the underlying Echo instance
func (ea *EchoAdapter) Engine() *echo.Echo {
	return ea.engine
}
