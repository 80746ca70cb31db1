package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/edureport/internal/model"
)

// WithDependent runs fn with the session switched to the dependent id.
//
// The active identity captured before the switch is restored on every
// exit path, including a failed switch, an error from fn, and context
// cancellation. Errors while switching back are logged and dropped, so
// the caller only sees the switch error or fn's error.
func WithDependent(ctx context.Context, s Switcher, id string, logger *slog.Logger, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}

	original := s.ActiveIdentity()
	defer func() {
		// Switch back even when ctx is already cancelled.
		if err := s.SwitchToParent(context.WithoutCancel(ctx)); err != nil {
			logger.Debug("failed to switch back to parent", "dependent", id, "error", err)
		}
		s.SetActiveIdentity(original)
	}()

	if err := s.SwitchToChild(ctx, id); err != nil {
		return &IdentitySwitchError{ID: id, Err: err}
	}
	s.SetActiveIdentity(id)

	return fn(ctx)
}

// ResolveIdentity builds the identity of a dependent, resolving its display
// name from the student database, then the children map, and finally
// leaving it for the writer to label with the id.
func ResolveIdentity(names NameResolver, id string) model.Identity {
	identity := model.Identity{ID: id}

	if name, ok := names.StudentName(id); ok && name != "" {
		identity.Name = name
		identity.Source = model.NameFromLookup
		return identity
	}

	if name, ok := names.ChildName(id); ok {
		if name == "" {
			identity.Source = model.NameUnknown
			return identity
		}
		identity.Name = name
		identity.Source = model.NameFromChildren
		return identity
	}

	identity.Source = model.NameSynthetic
	return identity
}
