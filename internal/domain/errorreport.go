package domain

import "strings"

// ProductDetails identifies the product a defect report refers to. It is
// meaningful only for the product-related error types (shortage, surplus,
// quality defect).
type ProductDetails struct {
	ProductCode string
	ProductName string
	Quantity    string
	Unit        string
}

// ErrorReport is one defect recorded during a pallet check: a common
// {type, comment} shape plus an optional product payload valid only for the
// product-related variants.
type ErrorReport struct {
	Type    ErrorType
	Comment string
	Product *ProductDetails
}

// NewErrorReport constructs a validated ErrorReport. The comment is required
// for every type; a product payload is accepted only for types that carry
// one. Variant-field presence is checked here, at construction, never at
// display time.
func NewErrorReport(errType ErrorType, comment string, product *ProductDetails) (ErrorReport, error) {
	var errs []FieldError

	if !errType.IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "unknown error type"})
	}
	if strings.TrimSpace(comment) == "" {
		errs = append(errs, FieldError{Field: "comment", Message: "required"})
	}
	if product != nil && errType.IsValid() && !errType.RequiresProduct() {
		errs = append(errs, FieldError{
			Field:   "product",
			Message: "not allowed for type " + errType.String(),
		})
	}

	if len(errs) > 0 {
		return ErrorReport{}, NewValidationErrors(errs)
	}

	report := ErrorReport{
		Type:    errType,
		Comment: strings.TrimSpace(comment),
	}
	if product != nil {
		p := *product
		report.Product = &p
	}
	return report, nil
}
