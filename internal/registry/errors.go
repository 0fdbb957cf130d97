package registry

import (
	"errors"
	"fmt"
)

// NotFoundError reports that an identifier resolved to nothing in its
// registry. Operations that hit one abort without partial mutation.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// DuplicateError reports a violated uniqueness constraint (username,
// platform name, license plate, work item name+duration, customer
// identity+address).
type DuplicateError struct {
	Entity string
	Key    string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsDuplicate(err error) bool {
	var dup *DuplicateError
	return errors.As(err, &dup)
}
