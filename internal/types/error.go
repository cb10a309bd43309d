package types

import "fmt"

// CustomError carries an HTTP status and a machine-readable type through the
// middleware chain to the Fiber error handler. Type is the denied auth stage
// or the (resource, operation) pair that refused the caller.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
