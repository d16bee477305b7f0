package internal

import "fmt"

// StorageError represents errors accessing the asset cache or event database
type StorageError struct {
	Path string
	Op   string // "read", "write", "rename", "query"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing event source files
type ParseError struct {
	Source string // "markdown", "yaml", "config", "venue"
	Key    string // file path or field name
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// GenerationError represents a failed asset generation call
type GenerationError struct {
	Task        string
	Fingerprint string
	Err         error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error [%s] %s: %v", e.Task, e.Fingerprint, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
