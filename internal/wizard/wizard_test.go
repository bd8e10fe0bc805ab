package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateExecutionTime(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"  ", false},
		{"0.1", false},
		{"2", false},
		{"0", true},
		{"-1", true},
		{"fast", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateExecutionTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort("7428"))
	assert.NoError(t, ValidatePort(" 80 "))
	assert.Error(t, ValidatePort("0"))
	assert.Error(t, ValidatePort("70000"))
	assert.Error(t, ValidatePort("http"))
}
