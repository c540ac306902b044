package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError_ReportsJSONFieldNames(t *testing.T) {
	SetupValidator()
	gin.SetMode(gin.TestMode)

	type registerRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	router := gin.New()
	router.POST("/register", func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"not-an-email","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	require.Len(t, resp.Error.Details, 2)

	// Tag name func maps struct fields to their json names
	fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestHandleValidationError_ValidInputPasses(t *testing.T) {
	SetupValidator()
	gin.SetMode(gin.TestMode)

	type registerRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	router := gin.New()
	router.POST("/register", func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"shopper@example.com","password":"long-enough"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestGetValidationMessage(t *testing.T) {
	type input struct {
		Email    string `validate:"email"`
		Name     string `validate:"required"`
		Password string `validate:"min=8"`
		Status   string `validate:"oneof=active inactive"`
		Quantity int    `validate:"gt=0"`
		Page     int    `validate:"gte=1"`
		ID       string `validate:"uuid"`
		Website  string `validate:"url"`
	}

	v := validator.New()
	err := v.Struct(input{
		Email:    "nope",
		Name:     "",
		Password: "short",
		Status:   "archived",
		Quantity: -1,
		Page:     0,
		ID:       "not-a-uuid",
		Website:  "not-a-url",
	})
	require.Error(t, err)

	expected := map[string]string{
		"Email":    "Invalid email format",
		"Name":     "This field is required",
		"Password": "Must be at least 8 characters",
		"Status":   "Must be one of: active inactive",
		"Quantity": "Must be greater than 0",
		"Page":     "Must be greater than or equal to 1",
		"ID":       "Invalid UUID format",
		"Website":  "Invalid URL format",
	}

	validationErrs := err.(validator.ValidationErrors)
	require.Len(t, validationErrs, len(expected))
	for _, e := range validationErrs {
		assert.Equal(t, expected[e.Field()], getValidationMessage(e), "field %s", e.Field())
	}
}
