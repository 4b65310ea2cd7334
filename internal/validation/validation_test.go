package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("PM", "source"))
	assert.Error(t, ValidateRequired("", "source"))
	assert.Error(t, ValidateRequired("   ", "source"))
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID("5a0bdbb0-59fb-4ba5-9a9f-5e9d37f6bd1f", "id"))
	assert.Error(t, ValidateUUID("not-a-uuid", "id"))
	assert.Error(t, ValidateUUID("", "id"))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2025-01-01", "date"))
	assert.Error(t, ValidateDate("2025-02-30", "date"))
	assert.Error(t, ValidateDate("01.01.2025", "date"))
}

func TestValidateTimestamp(t *testing.T) {
	assert.NoError(t, ValidateTimestamp("2025-01-01T10:00:00Z", "added_time"))
	assert.NoError(t, ValidateTimestamp("2025-01-01T10:00:00.123456789+01:00", "added_time"))
	assert.Error(t, ValidateTimestamp("yesterday", "added_time"))
}
