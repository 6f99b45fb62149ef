package routes

import (
	"github.com/gin-gonic/gin"

	"imagevault/image-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all API routes. The local-store pair is only present
// when running against the local substitute backend.
func (r *Routes) Register(router gin.IRouter) {
	router.POST("/images/upload", r.handlers.Image.CreateUpload)
	router.POST("/save-metadata", r.handlers.Image.SaveMetadata)
	router.GET("/images", r.handlers.Image.List)
	router.GET("/images/:id/download", r.handlers.Image.Download)
	router.DELETE("/images/:id", r.handlers.Image.Delete)
	router.GET("/usage", r.handlers.Image.Usage)

	if r.handlers.LocalStore != nil {
		router.PUT("/local-store/:key", r.handlers.LocalStore.Put)
		router.GET("/local-store/:key", r.handlers.LocalStore.Get)
	}
}
