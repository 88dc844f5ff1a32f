package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound       = errors.New("not found")
	ErrNotLinked      = errors.New("object has no VPG file")
	ErrParseEmpty     = errors.New("no vertices found")
	ErrIO             = errors.New("file I/O failure")
	ErrReconciliation = errors.New("reconciliation failure")
	ErrNameCollision  = errors.New("document name collision")
	ErrNoText         = errors.New("no VPG text available")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SyncError is a failure of one engine operation on one object or file
type SyncError struct {
	Op     string // "import", "export", "sync-geometry", "sync-text", ...
	Object string
	Path   string
	Err    error
}

func (e *SyncError) Error() string {
	switch {
	case e.Object != "" && e.Path != "":
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Object, e.Path, e.Err)
	case e.Object != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Object, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// CollisionError reports two full paths sharing one short name
type CollisionError struct {
	ShortName string
	Existing  string
	Requested string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("cannot track %s: name %q already used by %s", e.Requested, e.ShortName, e.Existing)
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrNameCollision
}
