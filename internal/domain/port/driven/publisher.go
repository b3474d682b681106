package driven

import "context"

// Publisher defines the driven port for pushing data files to the target
// repository. Implementations own the create-vs-update decision.
type Publisher interface {
	// Upload creates or replaces the file at path on the configured branch,
	// committing with the given message.
	Upload(ctx context.Context, path string, content []byte, message string) error

	// ValidateToken verifies the configured token and returns the
	// authenticated login on success.
	ValidateToken(ctx context.Context) (string, error)
}
