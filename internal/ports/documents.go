package ports

// TextBuffers is the host's text-buffer subsystem, keyed by short name
type TextBuffers interface {
	Get(name string) (string, bool)

	// Put replaces a buffer's content, creating it if needed. The buffer's
	// cursor is kept where it was, clamped to the new content.
	Put(name, content string) error

	Delete(name string) error
	Names() ([]string, error)
}

// PathMap persists the short name -> full path mapping of tracked documents
type PathMap interface {
	LoadPaths() (map[string]string, error)
	SavePath(shortName, fullPath string) error
	DeletePath(shortName string) error
}
