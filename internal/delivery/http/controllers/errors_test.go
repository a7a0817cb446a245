package controllers

import (
	"SkillTrack/internal/app_errors"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{app_errors.ErrInvalidWindow, http.StatusBadRequest},
		{app_errors.ErrTokenExpired, http.StatusUnauthorized},
		{app_errors.ErrNotCourseAuthor, http.StatusForbidden},
		{fmt.Errorf("wrap: %w", app_errors.ErrLessonNotFound), http.StatusNotFound},
		{app_errors.ErrNotEnrolled, http.StatusNotFound},
		{app_errors.ErrAlreadyEnrolled, http.StatusConflict},
		{app_errors.ErrPaymentDeclined, http.StatusPaymentRequired},
		{app_errors.Upstream(errors.New("timeout")), http.StatusServiceUnavailable},
		{app_errors.ErrReportStorageDisabled, http.StatusNotImplemented},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), tt.err.Error())
	}
}

func TestJSONFieldName(t *testing.T) {
	assert.Equal(t, "student_id", jsonFieldName("StudentID"))
	assert.Equal(t, "amount_paid", jsonFieldName("AmountPaid"))
	assert.Equal(t, "stars", jsonFieldName("Stars"))
	assert.Equal(t, "payment_token", jsonFieldName("PaymentToken"))
}
