package utils

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneForm struct {
	Phone  string   `json:"phone" binding:"required,krphone"`
	Others []string `json:"others" binding:"omitempty,dive,krphone"`
}

func TestKRPhoneValidator(t *testing.T) {
	require.NoError(t, RegisterValidators())

	assert.NoError(t, binding.Validator.ValidateStruct(&phoneForm{Phone: "010-1234-5678"}))
	assert.NoError(t, binding.Validator.ValidateStruct(&phoneForm{Phone: "+82 10 1234 5678", Others: []string{"02-123-4567"}}))

	err := binding.Validator.ValidateStruct(&phoneForm{Phone: "12345"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "krphone")

	assert.Error(t, binding.Validator.ValidateStruct(&phoneForm{Phone: "01012345678", Others: []string{"abc"}}))
}
