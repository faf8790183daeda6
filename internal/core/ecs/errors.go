package ecs

import "errors"

// Usage and configuration errors. The ECS core panics with these wrapped in
// context so a recovering caller can still match them with errors.Is.
var (
	ErrNotAlive             = errors.New("ecs: entity is not alive")
	ErrIDSpaceExhausted     = errors.New("ecs: entity id space exhausted")
	ErrDuplicateComponent   = errors.New("ecs: component already assigned")
	ErrInvalidComponent     = errors.New("ecs: invalid component")
	ErrManagerNotRegistered = errors.New("ecs: manager not registered")
	ErrManagerExists        = errors.New("ecs: manager already registered")
	ErrManagerType          = errors.New("ecs: manager type mismatch")
	ErrBorrowConflict       = errors.New("ecs: manager borrow conflict")
)
