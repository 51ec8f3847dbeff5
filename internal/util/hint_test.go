package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectHint(t *testing.T) {
	cases := map[string]string{
		"":                       "",
		"auth0|5f1c9a0b2e":       "auth0|5f1c…",
		"google-oauth2|12":       "google-oauth2|12",
		"client-credentials-app": "clie…",
		"  auth0|abcdef ":        "auth0|abcd…",
	}
	for in, want := range cases {
		assert.Equal(t, want, SubjectHint(in), in)
	}
}
