package payroll

import "errors"

var (
	ErrPayrollConfigNotFound   = errors.New("payroll config not found")
	ErrPayrollRunNotFound      = errors.New("payroll run not found")
	ErrPayrollRunAlreadyExists = errors.New("payroll run already exists for this period")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
	ErrNoEmployeesToProcess    = errors.New("no active employees to process")
)
