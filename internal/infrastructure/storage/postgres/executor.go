package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"sieve/internal/core/apperror"
	"sieve/internal/domain/filter"
	"sieve/internal/domain/resource"
)

var tracer = otel.Tracer("sieve/postgres")

// Executor runs a fully resolved scope. Sorting and pagination are applied
// here, downstream of filter resolution; the scope arrives opaque and
// leaves the builder untouched beyond ORDER BY / LIMIT / OFFSET.
type Executor struct {
	pool *Pool
}

// NewExecutor creates an executor over the pool.
func NewExecutor(pool *Pool) *Executor {
	return &Executor{pool: pool}
}

// Page describes the requested slice of the result set.
type Page struct {
	Size   int
	Number int
}

// Count counts rows matched by the scope, before pagination.
func (e *Executor) Count(ctx context.Context, scope filter.Scope) (int64, error) {
	sb, err := builder(scope)
	if err != nil {
		return 0, err
	}

	countQ := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("COUNT(*)").
		FromSelect(sb, "sub")

	sql, args, err := countQ.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := e.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, apperror.NewDatabase(err)
	}
	return total, nil
}

// Select executes the scope with ordering and pagination and returns rows
// as generic column maps.
func (e *Executor) Select(ctx context.Context, res *resource.Resource, scope filter.Scope, orderBy string, page Page) ([]map[string]any, error) {
	ctx, span := tracer.Start(ctx, "postgres.Select")
	defer span.End()
	span.SetAttributes(attribute.String("resource", res.Name))

	sb, err := builder(scope)
	if err != nil {
		return nil, err
	}

	order, err := parseOrderBy(res, orderBy)
	if err != nil {
		return nil, err
	}
	sb = sb.OrderBy(order)

	size := page.Size
	if size <= 0 || size > res.MaxPageSize {
		size = res.MaxPageSize
	}
	sb = sb.Limit(uint64(size))
	if page.Number > 1 {
		sb = sb.Offset(uint64((page.Number - 1) * size))
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := []map[string]any{}
	if err := pgxscan.Select(ctx, e.pool, &rows, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return rows, nil
}

func builder(scope filter.Scope) (squirrel.SelectBuilder, error) {
	sb, ok := scope.(squirrel.SelectBuilder)
	if !ok {
		return squirrel.SelectBuilder{}, fmt.Errorf("executor: unexpected scope %T", scope)
	}
	return sb, nil
}

// parseOrderBy validates the sort field against the resource's columns.
// Supports "-field" for DESC.
func parseOrderBy(res *resource.Resource, orderBy string) (string, error) {
	if orderBy == "" {
		orderBy = res.DefaultSort
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid sort").WithDetail("sort", orderBy)
	}

	for _, col := range res.Columns {
		if col == field {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid sort").
		WithDetail("sort", orderBy).
		WithDetail("field", field)
}
