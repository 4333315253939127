package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondAppError_MapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.Validation("tag", "must be 2-6 characters"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{apperr.NotFound("clan x not found"), http.StatusNotFound, "NOT_FOUND"},
		{apperr.NotAuthorized("no"), http.StatusForbidden, "NOT_AUTHORIZED"},
		{apperr.AlreadyInClan("busy"), http.StatusConflict, "ALREADY_IN_CLAN"},
		{apperr.LeaderCannotLeave("stay"), http.StatusConflict, "LEADER_CANNOT_LEAVE"},
		{apperr.Transport("load", errors.New("down")), http.StatusBadGateway, "TRANSPORT_ERROR"},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondAppError(rr, time.Now(), tc.err)

		assert.Equal(t, tc.status, rr.Code)
		var body dtos.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "error", body.Status)
		require.NotNil(t, body.Error)
		assert.Equal(t, tc.code, body.Error.Code)
	}
}

func TestRespondAppError_ValidationCarriesField(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondAppError(rr, time.Now(), apperr.Validation("secondary_bases", "at most 10 entries"))

	var body dtos.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "secondary_bases", body.Error.Field)
	assert.Equal(t, "at most 10 entries", body.Error.Message)
}

func TestRespondAppError_UnknownErrorIsOpaque(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondAppError(rr, time.Now(), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
}
