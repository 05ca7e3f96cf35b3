// Package validation checks request input before it reaches business logic.
//
// Request DTOs are validated with struct tags, reporting fields by their
// JSON names:
//
//	type SignupRequest struct {
//	    Username string `json:"username" validate:"required,max=64"`
//	    EmailID  string `json:"emailId" validate:"required,email"`
//	}
//	err := validation.Validate(req)
//
// Rules tags cannot express go through a Checker:
//
//	err := validation.Check().UUID("userId", c.Param("userId")).Err()
//
// Both return an INVALID_INPUT *errors.AppError listing every field.
package validation
