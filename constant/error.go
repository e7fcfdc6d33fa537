package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrInsufficientInventory
	ErrProductMismatch
	ErrInsufficientAdjustment
	ErrHoldNotActive
	ErrHoldCommitted
	ErrStorageUnavailable
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:                "success",
	ErrInternal:               "error internal",
	ErrNotFound:               "data not found",
	ErrInvalidRequest:         "invalid request",
	ErrUnauthorize:            "unauthorize request",
	ErrInsufficientInventory:  "insufficient inventory",
	ErrProductMismatch:        "sku already mapped to a different product",
	ErrInsufficientAdjustment: "adjustment would drive quantity below zero",
	ErrHoldNotActive:          "hold is not active",
	ErrHoldCommitted:          "hold is already committed",
	ErrStorageUnavailable:     "storage unavailable",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:                http.StatusOK,
	ErrInternal:               http.StatusInternalServerError,
	ErrNotFound:               http.StatusNotFound,
	ErrInvalidRequest:         http.StatusBadRequest,
	ErrUnauthorize:            http.StatusUnauthorized,
	ErrInsufficientInventory:  http.StatusConflict,
	ErrProductMismatch:        http.StatusConflict,
	ErrInsufficientAdjustment: http.StatusConflict,
	ErrHoldNotActive:          http.StatusConflict,
	ErrHoldCommitted:          http.StatusConflict,
	ErrStorageUnavailable:     http.StatusServiceUnavailable,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:                "0000",
	ErrInternal:               "0001",
	ErrNotFound:               "0002",
	ErrInvalidRequest:         "0003",
	ErrUnauthorize:            "0004",
	ErrInsufficientInventory:  "1001",
	ErrProductMismatch:        "1002",
	ErrInsufficientAdjustment: "1003",
	ErrHoldNotActive:          "1004",
	ErrHoldCommitted:          "1005",
	ErrStorageUnavailable:     "1006",
}
