package table

import "errors"

var (
	ErrMalformedHeader = errors.New("table header must start with variable and end with p-vaule, methods")
	ErrMalformedRecord = errors.New("table record width does not match header")
)
