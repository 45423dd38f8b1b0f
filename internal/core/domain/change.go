package domain

// ChangeType classifies a filesystem change.
type ChangeType string

// Change types reported by a file watcher.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// FileChange is one change observed under a watched directory.
type FileChange struct {
	// Path is the absolute or root-relative file path as reported by the watcher.
	Path string

	// Type is the kind of change.
	Type ChangeType
}
