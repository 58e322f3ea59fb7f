package user

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidators(t *testing.T) {
	validate, translator := newValidator()

	type input struct {
		Role     string `json:"role" validate:"role"`
		Password string `json:"password" validate:"pwdminlen,pwdmaxlen"`
	}
	tests := []struct {
		name    string
		in      input
		wantErr map[string]string
	}{
		{name: "valid", in: input{Role: "faculty", Password: "12345678"}},
		{name: "multibyte password", in: input{Role: "admin", Password: "ññññññññ"}},
		{name: "72 bytes password", in: input{Role: "student", Password: strings.Repeat("a", 72)}},
		{name: "password over 72 bytes", in: input{Role: "student", Password: strings.Repeat("ñ", 37)}, wantErr: map[string]string{
			"password": "password must be at most 72 bytes",
		}},
		{name: "invalid", in: input{Role: "dean", Password: "1234567"}, wantErr: map[string]string{
			"role":     "invalid role",
			"password": "password must be at least 8 characters",
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validate.Struct(tc.in)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			got := make(map[string]string)
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tc.wantErr, got)
		})
	}
}
