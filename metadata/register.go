package metadata

import (
	"fmt"

	"go.uber.org/zap"
)

// logger is shared by Define and RegisterGroup. A nop by default; wire a
// real one with SetLogger before defining models to trace generation.
var logger = zap.NewNop()

// SetLogger installs the logger used for definition and registration
// events.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// RegisterGroup registers the viewset of every processed definition in an
// application group with the router, in definition order. Definitions
// without a holder are silently skipped. No deduplication is performed;
// call it exactly once per group.
func RegisterGroup(group string, r Router) error {
	for _, def := range Group(group) {
		h, ok := Of(def)
		if !ok {
			continue
		}
		if err := h.Register(r); err != nil {
			return fmt.Errorf("register group %s: %w", group, err)
		}
		logger.Info("resource registered",
			zap.String("group", group),
			zap.String("model", h.Name()),
			zap.String("path", h.Name()+"s"),
		)
	}
	return nil
}
