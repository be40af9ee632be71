package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrSessionNotFound = fmt.Errorf("session not found")
	ErrSinkFull        = fmt.Errorf("session send buffer full")
	ErrEmptyWords      = fmt.Errorf("no words have been found")
)
