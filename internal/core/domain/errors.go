package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountNotFound = errors.New("account not found")
var ErrAccountExists = errors.New("account already exists")
var ErrTokenInvalid = errors.New("token invalid")
var ErrForbidden = errors.New("access forbidden")
var ErrTaskNotFound = errors.New("task not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrEmptyAssigneePool = errors.New("no eligible assignees")
var ErrMirrorAccountNotFound = errors.New("mirrored account not found")

// ErrStorageUnavailable wraps infrastructure failures so callers can tell a
// broken database apart from a legitimate business denial.
var ErrStorageUnavailable = errors.New("storage unavailable")
