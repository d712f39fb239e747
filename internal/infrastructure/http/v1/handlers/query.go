package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sieve/internal/core/apperror"
	"sieve/internal/domain/filter"
	"sieve/internal/domain/resource"
	"sieve/internal/infrastructure/http/v1/dto"
	"sieve/internal/infrastructure/storage/postgres"
	"sieve/pkg/logger"
)

// QueryHandler serves filtered listing of registered resources.
type QueryHandler struct {
	*BaseHandler
	registry *resource.Registry
	engine   *filter.Engine
	adapter  filter.Adapter
	executor *postgres.Executor
	audit    *postgres.QueryAudit
}

// NewQueryHandler creates a new query handler. The audit recorder is optional.
func NewQueryHandler(
	registry *resource.Registry,
	engine *filter.Engine,
	adapter filter.Adapter,
	executor *postgres.Executor,
	audit *postgres.QueryAudit,
) *QueryHandler {
	return &QueryHandler{
		BaseHandler: NewBaseHandler(),
		registry:    registry,
		engine:      engine,
		adapter:     adapter,
		executor:    executor,
		audit:       audit,
	}
}

// List handles a filtered, paginated listing of one resource.
// GET /api/v1/:resource
func (h *QueryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	res, ok := h.registry.Get(c.Param("resource"))
	if !ok {
		h.Error(c, apperror.NewNotFound("resource", c.Param("resource")))
		return
	}
	cfg := res.Filters()

	params, err := parseFilterParams(c.Request.URL.RawQuery)
	if err != nil {
		h.Error(c, err)
		return
	}

	// Guards are a request-context concern, checked here before the
	// engine ever sees the parameter. Unknown names fall through so the
	// engine reports them uniformly.
	for _, p := range params {
		def := cfg.Lookup(p.Name)
		if def == nil || def.Guard == nil {
			continue
		}
		allowed, gerr := def.Guard(ctx)
		if gerr != nil {
			h.Error(c, apperror.NewInternal(gerr))
			return
		}
		if !allowed {
			h.Error(c, apperror.NewForbidden("filter not permitted: "+p.Name))
			return
		}
	}

	scope := h.adapter.BaseScope(res.Table, res.Columns)
	scope, err = h.engine.Apply(ctx, cfg, scope, params)
	if err != nil {
		h.Error(c, err)
		return
	}

	total, err := h.executor.Count(ctx, scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	page := postgres.Page{
		Size:   h.ParseIntQuery(c, "page[size]", 20),
		Number: h.ParseIntQuery(c, "page[number]", 1),
	}
	if page.Size < 1 {
		page.Size = 20
	}
	if page.Size > res.MaxPageSize {
		page.Size = res.MaxPageSize
	}
	if page.Number < 1 {
		page.Number = 1
	}

	rows, err := h.executor.Select(ctx, res, scope, c.Query("sort"), page)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		if aerr := h.audit.Record(ctx, res.Name, auditFilters(params), total); aerr != nil {
			logger.Warn(ctx, "query audit record failed", "resource", res.Name, "error", aerr)
		}
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Data:       rows,
		Pagination: dto.NewPaginationResponse(page.Number, page.Size, total),
	})
}

// auditFilters flattens ordered params into the audit payload shape.
func auditFilters(params []filter.Param) map[string]any {
	out := make(map[string]any, len(params))
	for _, p := range params {
		if ops, ok := p.Raw.([]filter.OpValue); ok {
			entries := make(map[string]any, len(ops))
			for _, ov := range ops {
				entries[string(ov.Op)] = ov.Value
			}
			out[p.Name] = entries
			continue
		}
		out[p.Name] = p.Raw
	}
	return out
}
