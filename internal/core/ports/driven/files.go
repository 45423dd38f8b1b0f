package driven

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// FileSource enumerates and watches ingestible files under a directory.
// Hidden files and directories (dot-prefixed) are never reported.
type FileSource interface {
	// List returns every supported file under root, sorted.
	List(ctx context.Context, root string) ([]string, error)

	// Watch reports changes to supported files under root until ctx is done,
	// then closes the channel.
	Watch(ctx context.Context, root string) (<-chan domain.FileChange, error)
}
