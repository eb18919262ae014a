package adapters

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// FiberAdapter mounts listeners on a Fiber app. Requests are converted to
// net/http with the adaptor middleware.
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter for app
func NewFiberAdapter(app *fiber.App) *FiberAdapter {
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a Fiber adapter that recovers handler panics
func NewDefaultFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	return NewFiberAdapter(app)
}

// Name returns the framework name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// Mount routes POST requests on path to handler
func (fa *FiberAdapter) Mount(path string, handler http.Handler) {
	fa.app.Post(path, adaptor.HTTPHandler(handler))
}

// App returns the underlying Fiber app
func (fa *FiberAdapter) App() *fiber.App {
	return fa.app
}
