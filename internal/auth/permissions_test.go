package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPermission(t *testing.T) {
	claims := &Claims{Permissions: []string{"get:drinks-detail", "post:drinks"}}

	require.NoError(t, CheckPermission(claims, "post:drinks"))
	assert.Equal(t, []string{"get:drinks-detail", "post:drinks"}, claims.Permissions)

	err := CheckPermission(claims, "delete:drinks")
	require.ErrorIs(t, err, ErrPermissionDenied)
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, f.Status)
	assert.Equal(t, "permission_denied", f.Code())
}

func TestCheckPermission_ExactMatchOnly(t *testing.T) {
	claims := &Claims{Permissions: []string{"get:*", "GET:DRINKS", "get:drinks "}}

	assert.ErrorIs(t, CheckPermission(claims, "get:drinks"), ErrPermissionDenied)
}

func TestCheckPermission_MissingClaim(t *testing.T) {
	err := CheckPermission(&Claims{}, "get:drinks-detail")
	require.ErrorIs(t, err, ErrClaimsMissingPermissions)
	f, _ := AsFailure(err)
	assert.Equal(t, http.StatusForbidden, f.Status)

	assert.ErrorIs(t, CheckPermission(nil, "get:drinks-detail"), ErrClaimsMissingPermissions)
}

func TestCheckPermission_EmptyClaim(t *testing.T) {
	err := CheckPermission(&Claims{Permissions: []string{}}, "get:drinks-detail")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestFailure_CauseStaysInternal(t *testing.T) {
	f := newFailure(ErrKeySetUnavailable, assert.AnError)

	assert.ErrorIs(t, f, ErrKeySetUnavailable)
	assert.ErrorIs(t, f, assert.AnError)
	assert.Equal(t, "Unable to obtain signing keys.", f.Description)
	assert.NotContains(t, f.Description, assert.AnError.Error())
	assert.Contains(t, f.Error(), assert.AnError.Error())
}

func TestFailure_UnknownKindFallsBack(t *testing.T) {
	f := newFailure(assert.AnError, nil)
	assert.ErrorIs(t, f, ErrMalformedToken)
	assert.Equal(t, http.StatusUnauthorized, f.Status)
}
