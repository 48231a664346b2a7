package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "DEAL_NOT_FOUND: Deal not found", ErrDealNotFound.Error())
	assert.Equal(t, http.StatusNotFound, ErrDealNotFound.StatusCode)
}

func TestAppError_WithDetailsDoesNotMutateSentinel(t *testing.T) {
	detailed := ErrInvalidCoordinates.WithDetails(map[string]interface{}{"lat": 91.0})

	assert.Equal(t, 91.0, detailed.Details["lat"])
	assert.Empty(t, ErrInvalidCoordinates.Details)
	assert.Equal(t, ErrInvalidCoordinates.Code, detailed.Code)
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	detailed := ErrInvalidDealID.WithDetails(map[string]interface{}{"DealID": "uuid"})
	wrapped := fmt.Errorf("load reference: %w", detailed)

	assert.True(t, stderrors.Is(wrapped, ErrInvalidDealID))
	assert.False(t, stderrors.Is(wrapped, ErrDealNotFound))
}
