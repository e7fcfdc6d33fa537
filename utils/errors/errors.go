package errors

import (
	stderrors "errors"

	"github.com/shopcore/inventory-core/constant"
)

// InsufficientLine reports one deficient line of a hold or adjustment request.
type InsufficientLine struct {
	SKU       string `json:"sku"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// ProductMismatch reports an inflow line whose sku already maps to another product.
type ProductMismatch struct {
	SKU               string `json:"sku"`
	ProductID         string `json:"product_id"`
	ExistingProductID string `json:"existing_product_id"`
}

type CustomError struct {
	errType           constant.ErrorType
	Insufficient      []InsufficientLine
	ProductMismatches []ProductMismatch
}

func (c CustomError) Error() string {
	return constant.ErrorTypeMessage[c.errType]
}

func (c CustomError) ErrorCode() string {
	return constant.ErrorTypeCode[c.errType]
}

func (c CustomError) ErrorHTTPCode() int {
	return constant.ErrorTypeHTTPCode[c.errType]
}

func (c CustomError) Type() constant.ErrorType {
	return c.errType
}

func SetCustomError(errorType constant.ErrorType) CustomError {
	return CustomError{
		errType: errorType,
	}
}

// SetInsufficientError carries the full list of short lines so callers can
// render an actionable message instead of a generic failure.
func SetInsufficientError(errorType constant.ErrorType, lines []InsufficientLine) CustomError {
	return CustomError{
		errType:      errorType,
		Insufficient: lines,
	}
}

func SetProductMismatchError(mismatches []ProductMismatch) CustomError {
	return CustomError{
		errType:           constant.ErrProductMismatch,
		ProductMismatches: mismatches,
	}
}

// TypeOf extracts the error type from any error produced by this package.
func TypeOf(err error) (constant.ErrorType, bool) {
	var cerr CustomError
	if stderrors.As(err, &cerr) {
		return cerr.errType, true
	}
	return constant.ErrInternal, false
}

// Is reports whether err is a CustomError of the given type.
func Is(err error, errorType constant.ErrorType) bool {
	t, ok := TypeOf(err)
	return ok && t == errorType
}
