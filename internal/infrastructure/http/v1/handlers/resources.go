package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sieve/internal/core/apperror"
	"sieve/internal/domain/resource"
	"sieve/internal/infrastructure/http/v1/dto"
	"sieve/internal/infrastructure/storage/postgres"
)

// ResourcesHandler exposes the declared resource catalog.
type ResourcesHandler struct {
	*BaseHandler
	registry *resource.Registry
	audit    *postgres.QueryAudit
}

// NewResourcesHandler creates a new resources handler.
func NewResourcesHandler(registry *resource.Registry, audit *postgres.QueryAudit) *ResourcesHandler {
	return &ResourcesHandler{
		BaseHandler: NewBaseHandler(),
		registry:    registry,
		audit:       audit,
	}
}

// List returns all registered resources with their filter declarations.
// GET /api/v1/resources
func (h *ResourcesHandler) List(c *gin.Context) {
	names := h.registry.Names()
	out := make([]dto.ResourceDescriptor, 0, len(names))
	for _, name := range names {
		res, ok := h.registry.Get(name)
		if !ok {
			continue
		}
		out = append(out, describe(res))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns one resource's declaration.
// GET /api/v1/resources/:name
func (h *ResourcesHandler) Get(c *gin.Context) {
	res, ok := h.registry.Get(c.Param("name"))
	if !ok {
		h.Error(c, apperror.NewNotFound("resource", c.Param("name")))
		return
	}
	c.JSON(http.StatusOK, describe(res))
}

// History returns recent query audit entries for one resource.
// GET /api/v1/resources/:name/history
func (h *ResourcesHandler) History(c *gin.Context) {
	if h.audit == nil {
		h.Error(c, apperror.NewNotFound("resource history", c.Param("name")))
		return
	}
	res, ok := h.registry.Get(c.Param("name"))
	if !ok {
		h.Error(c, apperror.NewNotFound("resource", c.Param("name")))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	entries, err := h.audit.History(c.Request.Context(), res.Name, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func describe(res *resource.Resource) dto.ResourceDescriptor {
	cfg := res.Filters()
	filters := make([]dto.FilterDescriptor, 0, len(cfg.Definitions))
	for _, def := range cfg.Definitions {
		filters = append(filters, dto.FilterDescriptor{
			Name:      def.Name,
			Type:      def.Type.Name,
			Aliases:   def.Aliases,
			Single:    def.Single,
			Required:  def.Required,
			DependsOn: def.DependsOn,
			Guarded:   def.Guard != nil,
		})
	}
	return dto.ResourceDescriptor{
		Name:        res.Name,
		DefaultSort: res.DefaultSort,
		MaxPageSize: res.MaxPageSize,
		Filters:     filters,
	}
}
