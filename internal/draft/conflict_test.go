package draft

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConflict(t *testing.T) {
	tests := []struct {
		name        string
		live, base  uint64
		wantConflct bool
	}{
		{"same version", 1, 1, false},
		{"published since", 2, 1, true},
		{"several publishes since", 5, 2, true},
		{"base ahead of live", 1, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantConflct, DetectConflict(tt.live, tt.base))
		})
	}
}

func TestConflicted_Err(t *testing.T) {
	err := Conflicted{Expected: 1, Actual: 2}.Err()

	assert.Equal(t, http.StatusConflict, err.Status)
	body, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	assert.Contains(t, string(body), `"details":{"publishedVersion":2,"draftBaseVersion":1}`)
}
