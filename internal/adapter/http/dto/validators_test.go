package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := LoginRequest{
		Username: "  operator  ",
		Password: "  pass1234  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "operator", req.Username)
	assert.Equal(t, "pass1234", req.Password)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	name := "maria <script>alert('x')</script>"
	req := PayoutUpdateRequest{PixName: &name}
	SanitizeStruct(&req)

	assert.Contains(t, *req.PixName, "&lt;script&gt;")
	assert.NotContains(t, *req.PixName, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	key := "  maria@example.com  "
	req := PayoutUpdateRequest{PixKey: &key}
	SanitizeStruct(&req)

	assert.Equal(t, "maria@example.com", *req.PixKey)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := PayoutUpdateRequest{}
	SanitizeStruct(&req)
	assert.Nil(t, req.FullName)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	req := LoginRequest{Username: " a ", Password: " b "}
	SanitizeStruct(req)

	assert.Equal(t, " a ", req.Username)
}
