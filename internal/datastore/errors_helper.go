// Package datastore provides error handling helpers for database operations
package datastore

import (
	"time"

	"github.com/tphakala/birdnet-sql/internal/errors"
)

// dbError creates a properly categorized database error with context
func dbError(err error, operation string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	return withPairs(builder, context).Build()
}

// dbTimedError is dbError for an operation that ran for elapsed before failing
func dbTimedError(err error, operation string, elapsed time.Duration, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Timing(operation, elapsed)

	return withPairs(builder, context).Build()
}

func withPairs(builder *errors.ErrorBuilder, context []any) *errors.ErrorBuilder {
	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}
	return builder
}
