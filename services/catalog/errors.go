package catalog

import (
	"errors"
	"fmt"
)

const (
	CodeUnknownService = "unknown_service"
	CodeUnknownStaff   = "unknown_staff"
	CodeEmptyBundle    = "empty_bundle"
)

// CatalogError is a typed input-validation failure: the request referenced
// something the catalog or directory does not contain.
type CatalogError struct {
	Code    string
	Message string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewUnknownServiceError(id string) error {
	return &CatalogError{Code: CodeUnknownService, Message: fmt.Sprintf("service %q is not in the catalog", id)}
}

func NewUnknownStaffError(id string) error {
	return &CatalogError{Code: CodeUnknownStaff, Message: fmt.Sprintf("staff %q is not in the directory", id)}
}

func NewEmptyBundleError() error {
	return &CatalogError{Code: CodeEmptyBundle, Message: "a booking request needs at least one service"}
}

// AsCatalogError unwraps err into a *CatalogError if it is one.
func AsCatalogError(err error) (*CatalogError, bool) {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
