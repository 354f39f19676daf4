package domain

import (
	"context"

	"talentboard/internal/core/id"
	"talentboard/pkg/logger"
)

// AuditHooks registers after-hooks that log every committed change of
// entityName at info level.
func AuditHooks[T any](hooks *HookRegistry[T], entityName string) {
	for _, event := range []HookEvent{AfterCreate, AfterUpdate, AfterDelete} {
		hooks.On(event, func(ctx context.Context, e T) error {
			fields := []any{"event", string(event)}
			if ided, ok := any(e).(interface{ GetID() id.ID }); ok {
				fields = append(fields, "id", ided.GetID().String())
			}
			logger.Info(logger.WithEntity(ctx, entityName), "entity changed", fields...)
			return nil
		})
	}
}
