// SPDX-License-Identifier: MIT
package graphstore

import "github.com/haldane-labs/browsectx/errs"

func invariantErr(tag, detail string) error {
	return &errs.InternalInvariantError{Invariant: tag, Detail: detail}
}

func validationErr(field, reason string) error {
	return &errs.ValidationError{Field: field, Reason: reason}
}
