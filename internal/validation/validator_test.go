package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

type request struct {
	Host  string `json:"host_name,omitempty" validate:"required,max=5"`
	Lines []line `json:"lines" validate:"required,min=1,dive"`
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		input      request
		wantFields map[string]string
	}{
		{
			name:  "valid",
			input: request{Host: "Alice", Lines: []line{{Name: "Pizza", Quantity: 1}}},
		},
		{
			name:  "missing host uses json name",
			input: request{Lines: []line{{Name: "Pizza", Quantity: 1}}},
			wantFields: map[string]string{
				"host_name": "is required",
			},
		},
		{
			name:  "too long",
			input: request{Host: "Alexandra", Lines: []line{{Name: "Pizza", Quantity: 1}}},
			wantFields: map[string]string{
				"host_name": "must not exceed 5 characters",
			},
		},
		{
			name:  "nested fields are indexed",
			input: request{Host: "Bob", Lines: []line{{Name: "Pizza", Quantity: 1}, {Quantity: 0}}},
			wantFields: map[string]string{
				"lines[1].name":     "is required",
				"lines[1].quantity": "must be greater than or equal to 1",
			},
		},
		{
			name:  "empty slice",
			input: request{Host: "Bob", Lines: []line{}},
			wantFields: map[string]string{
				"lines": "must have at least 1 entries",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantFields, verr.Fields)
		})
	}
}

func TestError_MessageIsSorted(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "is required", "a": "is invalid"}}
	assert.Equal(t, "validation failed: a is invalid; b is required", err.Error())
}
