package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageWritesLogLine(t *testing.T) {
	t.Chdir(t.TempDir())

	ev := InquiryCreatedEvent{
		InquiryID:     "inq-1",
		UserID:        "user-1",
		OwnerID:       "owner-1",
		PropertyID:    "prop-1",
		PropertyTitle: "Sunrise PG",
		City:          "pune",
		CreatedAt:     "2026-09-01T10:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, handleMessage(body))

	data, err := os.ReadFile(filepath.Join("logs", "inquiry.log"))
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "inquiry_id=inq-1")
	assert.Contains(t, line, "property_id=prop-1")
	assert.Contains(t, line, `title="Sunrise PG"`)
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.Error(t, handleMessage([]byte("{not json")))
}
