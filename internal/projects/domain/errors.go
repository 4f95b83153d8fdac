package domain

import "errors"

var (
	ErrNotFound          = errors.New("project not found")
	ErrDuplicateID       = errors.New("project id already exists")
	ErrInvalidStatus     = errors.New("invalid project status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidProgress   = errors.New("invalid progress")
	ErrInvalidInput      = errors.New("invalid project input")
	ErrInvalidStep       = errors.New("unknown workflow step")
)
