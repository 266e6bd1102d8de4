package employee

import "errors"

var (
	ErrEmployeeNotFound          = errors.New("employee not found")
	ErrInvalidWorkerType         = errors.New("worker type must be Salaried, Hourly or Contractor")
	ErrMissingCompensation       = errors.New("employee has no compensation configured")
	ErrEmployeeNotActive         = errors.New("employee is not active")
	ErrEmployeeAlreadyOffboarded = errors.New("employee has already been offboarded")
)
