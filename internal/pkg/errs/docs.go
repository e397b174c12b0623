// Package errs holds the error types shared by the domain model, the use cases
// and the adapters of the dispatch service.
//
// Every type pairs a sentinel (ErrValueIsRequired, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrObjectNotFound, ErrVersionIsInvalid) with a struct
// carrying the details. The struct unwraps to its sentinel, so callers classify
// failures with errors.Is while the message keeps the parameter that failed:
//
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return ctx.JSON(http.StatusNotFound, ...)
//	}
//
// Messages are rendered on a single line; embedded newlines are replaced.
package errs
