// Package validatorx shares one go-playground validator across handlers.
// The instance caches struct metadata, so building it once matters.
package validatorx

import (
	"sync"

	gpvalidator "github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *gpvalidator.Validate
)

func instance() *gpvalidator.Validate {
	once.Do(func() {
		v = gpvalidator.New()
	})
	return v
}

// ValidateStruct checks the validate tags on s.
func ValidateStruct(s interface{}) error {
	return instance().Struct(s)
}
