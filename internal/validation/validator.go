package validation

import "github.com/go-playground/validator/v10"

// Validate is the shared request-DTO validator used by the handlers.
var Validate = validator.New()
