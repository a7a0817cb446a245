package app_errors

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")
var ErrUnauthorized = errors.New("unauthorized")
var ErrForbidden = errors.New("forbidden")
var ErrUpstreamUnavailable = errors.New("upstream unavailable")
var ErrNotConfigured = errors.New("feature is not configured")

var ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
var ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthorized)

var ErrCourseNotFound = errors.New("course not found")
var ErrSectionNotFound = errors.New("section not found")
var ErrLessonNotFound = errors.New("lesson not found")
var ErrNotEnrolled = errors.New("student is not enrolled in course")
var ErrProgressNotFound = errors.New("progress not found")
var ErrNotRated = errors.New("not rated")
var ErrReceiptNotFound = errors.New("payment receipt not found")

var ErrAlreadyEnrolled = errors.New("student is already enrolled in course")
var ErrDuplicateLesson = errors.New("lesson with this order already exists in the section")
var ErrDuplicateSection = errors.New("section with this order already exists in the course")

var ErrNotCourseAuthor = fmt.Errorf("%w: you are not course author", ErrForbidden)
var ErrPaymentDeclined = errors.New("payment declined")
var ErrReportStorageDisabled = fmt.Errorf("%w: report storage", ErrNotConfigured)

var ErrInvalidAmount = fmt.Errorf("%w: amount paid must not be negative", ErrValidation)
var ErrInvalidPrice = fmt.Errorf("%w: price must not be negative", ErrValidation)
var ErrInvalidWindow = fmt.Errorf("%w: window_months out of range", ErrValidation)
var ErrInvalidStars = fmt.Errorf("%w: stars must be between 1 and 5", ErrValidation)
var ErrInvalidLessonType = fmt.Errorf("%w: lesson type must be video, quiz or text", ErrValidation)
var ErrInvalidDuration = fmt.Errorf("%w: duration must not be negative", ErrValidation)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindPaymentDeclined
	KindUpstreamUnavailable
	KindNotConfigured
)

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrSectionNotFound),
		errors.Is(err, ErrLessonNotFound),
		errors.Is(err, ErrNotEnrolled),
		errors.Is(err, ErrProgressNotFound),
		errors.Is(err, ErrNotRated),
		errors.Is(err, ErrReceiptNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrDuplicateLesson),
		errors.Is(err, ErrDuplicateSection):
		return KindConflict
	case errors.Is(err, ErrPaymentDeclined):
		return KindPaymentDeclined
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	case errors.Is(err, ErrNotConfigured):
		return KindNotConfigured
	}
	return KindInternal
}

// Validation wraps a message as a validation failure.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Upstream marks err as a retryable storage or gateway failure.
func Upstream(err error) error {
	if err == nil || errors.Is(err, ErrUpstreamUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}

func Retryable(err error) bool {
	return KindOf(err) == KindUpstreamUnavailable
}
