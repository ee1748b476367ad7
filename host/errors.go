package host

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// Sentinel errors for common conditions. They wrap errdefs sentinels
// so callers can classify with errdefs.IsNotFound and friends.
var (
	// ErrTypeNotFound indicates a type name resolved to nothing,
	// neither resident nor loadable from an attached package.
	ErrTypeNotFound = fmt.Errorf("host: type not found: %w", errdefs.ErrNotFound)

	// ErrDuplicateType indicates a type name is already resident.
	ErrDuplicateType = fmt.Errorf("host: duplicate type: %w", errdefs.ErrConflict)

	// ErrBadDefinition indicates a script type definition that parsed
	// but cannot be instantiated (unknown super, bad interface ref).
	ErrBadDefinition = fmt.Errorf("host: invalid type definition: %w", errdefs.ErrInvalidArgument)
)
