// Package validation validates configuration structs with struct tags using
// go-playground/validator. Failures come back as an errors.AppError with code
// INVALID_INPUT and a "fields" detail listing each offending field by its
// mapstructure name.
//
//	type Config struct {
//	    MaxDepth int `mapstructure:"max_depth" validate:"gte=1,lte=4096"`
//	}
//	err := validation.Validate(cfg)
package validation
