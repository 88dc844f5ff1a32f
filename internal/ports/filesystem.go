package ports

// FileSystem is the raw file I/O boundary. Neither call panics or returns
// an error; failures are reported through the boolean.
type FileSystem interface {
	ReadFile(path string) (string, bool)
	WriteFile(path, content string) bool
}
