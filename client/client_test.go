package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAPIErrorShapes(t *testing.T) {
	err := parseAPIError(http.StatusBadRequest, []byte(`{"errors":[{"msg":"Status is required"},{"msg":"Skills is required"}]}`))
	assert.Equal(t, "Status is required", err.Message)
	assert.Equal(t, []string{"Status is required", "Skills is required"}, err.Errors)

	err = parseAPIError(http.StatusUnauthorized, []byte(`{"msg":"Token is not valid"}`))
	assert.Equal(t, "Token is not valid", err.Message)
	assert.Empty(t, err.Errors)

	err = parseAPIError(http.StatusNotFound, nil)
	assert.Equal(t, "Not Found", err.Message)

	err = parseAPIError(http.StatusBadRequest, []byte("not json"))
	assert.Equal(t, "Bad Request", err.Message)
}

func TestClientError(t *testing.T) {
	err := &APIError{Status: 400, Message: "Invalid credentials"}
	assert.Equal(t, "api error 400: Invalid credentials", err.Error())
}
