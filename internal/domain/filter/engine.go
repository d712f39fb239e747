package filter

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"sieve/internal/core/apperror"
	"sieve/internal/domain/types"
	"sieve/pkg/logger"
)

var tracer = otel.Tracer("sieve/filter")

// Engine drives the resolution pipeline per declared parameter, threading
// the scope through adapter operations. Stateless and safe for concurrent
// use; each Apply owns its scope exclusively.
type Engine struct {
	adapter Adapter
	caster  Caster
}

// NewEngine creates an engine bound to a backend adapter and a type-system
// caster.
func NewEngine(adapter Adapter, caster Caster) *Engine {
	return &Engine{adapter: adapter, caster: caster}
}

// Apply resolves every supplied parameter against the configuration and
// folds the resulting operations over the scope. The two batched checks
// run before any per-parameter processing. First error aborts with no
// scope returned; there is no partial application.
func (e *Engine) Apply(ctx context.Context, cfg *Config, scope Scope, params []Param) (Scope, error) {
	ctx, span := tracer.Start(ctx, "filter.Apply")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource", cfg.Resource),
		attribute.Int("params", len(params)),
	)

	if err := CheckBatched(cfg, params); err != nil {
		return nil, err
	}

	for _, param := range params {
		next, err := e.applyOne(ctx, cfg, scope, param)
		if err != nil {
			return nil, err
		}
		scope = next
	}
	return scope, nil
}

func (e *Engine) applyOne(ctx context.Context, cfg *Config, scope Scope, param Param) (Scope, error) {
	def := cfg.Lookup(param.Name)
	if def == nil {
		return nil, apperror.NewUnknownFilter(cfg.Resource, param.Name)
	}

	op, raw := Normalize(def, param.Raw)

	structured := def.Type.Kind == types.KindHash && !def.Type.IsArray

	value := ScalarValue(raw)
	if s, ok := raw.(string); ok && !structured {
		var err error
		if value, err = Tokenize(cfg.Resource, def, s); err != nil {
			return nil, err
		}
	} else if m, ok := raw.(map[string]any); ok {
		value = StructuredValue(m)
	} else if seq, ok := raw.([]any); ok {
		value = SequenceValue(seq)
	}

	if err := CheckSingular(cfg.Resource, def, value); err != nil {
		return nil, err
	}

	resolved, err := Coerce(cfg.Resource, def, e.caster, op, value)
	if err != nil {
		return nil, err
	}

	if err := CheckAllowDeny(cfg.Resource, def, resolved); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "applying filter",
		"resource", cfg.Resource,
		"filter", def.Name,
		"operator", string(op),
	)

	return Dispatch(ctx, e.adapter, def, op, resolved.Final(def.Single), scope)
}
