package adapters

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinAdapter mounts listeners on a Gin router
type GinAdapter struct {
	engine *gin.Engine
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(engine *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: engine}
}

// NewDefaultGinAdapter creates a Gin adapter in release mode without default middleware
func NewDefaultGinAdapter() *GinAdapter {
	gin.SetMode(gin.ReleaseMode)
	return NewGinAdapter(gin.New())
}

// Name returns the framework name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// Mount routes POST requests on path to handler
func (ga *GinAdapter) Mount(path string, handler http.Handler) {
	ga.engine.POST(path, gin.WrapH(handler))
}

// Engine returns the underlying Gin engine
func (ga *GinAdapter) Engine() *gin.Engine {
	return ga.engine
}
