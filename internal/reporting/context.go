package reporting

import (
	"context"
	"maps"
	"time"
)

type metaContextKey struct{}

// ReportingMeta is attached to every event reported from a request
type ReportingMeta struct {
	tags      map[string]string
	extras    map[string]string
	startedAt time.Time
}

// MetaFromContext returns a copy that is safe to modify
func MetaFromContext(ctx context.Context) ReportingMeta {
	meta, _ := ctx.Value(metaContextKey{}).(ReportingMeta)

	tags := maps.Clone(meta.tags)
	if tags == nil {
		tags = make(map[string]string)
	}
	extras := maps.Clone(meta.extras)
	if extras == nil {
		extras = make(map[string]string)
	}

	return ReportingMeta{
		tags:      tags,
		extras:    extras,
		startedAt: meta.startedAt,
	}
}

func updateMeta(ctx context.Context, update func(meta *ReportingMeta)) context.Context {
	meta := MetaFromContext(ctx)
	update(&meta)
	return context.WithValue(ctx, metaContextKey{}, meta)
}

func setStartedAtInContext(ctx context.Context, startedAt time.Time) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		meta.startedAt = startedAt
	})
}

// Extras are free-form, e.g. the player id being looked up
func AddExtrasToContext(ctx context.Context, extras map[string]string) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		maps.Copy(meta.extras, extras)
	})
}

// Tags must be low cardinality, e.g. the requested mode
func AddTagsToContext(ctx context.Context, tags map[string]string) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		maps.Copy(meta.tags, tags)
	})
}
