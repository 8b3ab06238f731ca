package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsmt/agentgate/internal/domain"
	"github.com/rsmt/agentgate/internal/usecase"
)

func TestValidateCorrelationFields(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string]interface{}
		wantField string
	}{
		{
			name: "Ok - all fields present",
			data: completeData(),
		},
		{
			name: "Ok - extra tool-specific fields pass through",
			data: func() map[string]interface{} {
				d := completeData()
				d["path"] = "/users/42"
				d["value"] = map[string]interface{}{"k": "v"}
				return d
			}(),
		},
		{
			name:      "Missing agent_id reported first",
			data:      map[string]interface{}{},
			wantField: "agent_id",
		},
		{
			name:      "Missing process_id",
			data:      map[string]interface{}{"agent_id": "a"},
			wantField: "process_id",
		},
		{
			name:      "Missing blueprint_id",
			data:      map[string]interface{}{"agent_id": "a", "process_id": "p"},
			wantField: "blueprint_id",
		},
		{
			name:      "Missing timestamp_last_touched",
			data:      map[string]interface{}{"agent_id": "a", "process_id": "p", "blueprint_id": "b"},
			wantField: "timestamp_last_touched",
		},
		{
			name:      "Both agent_id and process_id missing reports agent_id only",
			data:      map[string]interface{}{"blueprint_id": "b", "timestamp_last_touched": "t"},
			wantField: "agent_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := usecase.ValidateCorrelationFields(tt.data)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var missing *domain.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.wantField, missing.Field)
			// The field name appears literally in the message; callers
			// branch on it by substring.
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}
