package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFeedback_Valid(t *testing.T) {
	doc := []byte(`{
		"id": "f1",
		"job_id": "j1",
		"job_title": "Solar Installer",
		"original_classification": {"primary": "general-other", "confidence": 30},
		"user_correction": {"corrected_primary": "energy-utilities"}
	}`)

	assert.NoError(t, ValidateFeedback(doc))
}

func TestValidateFeedback_MissingRequiredFields(t *testing.T) {
	doc := []byte(`{"job_title": "Solar Installer"}`)

	err := ValidateFeedback(doc)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotEmpty(t, ve.Errors)

	msg := err.Error()
	assert.Contains(t, msg, "id")
	assert.Contains(t, msg, "job_id")
	assert.Contains(t, msg, "user_correction")
}

func TestValidateFeedback_EmptyCorrectedPrimary(t *testing.T) {
	doc := []byte(`{
		"id": "f1",
		"job_id": "j1",
		"user_correction": {"corrected_primary": ""}
	}`)

	assert.Error(t, ValidateFeedback(doc))
}

func TestValidateFeedback_ConfidenceOutOfRange(t *testing.T) {
	doc := []byte(`{
		"id": "f1",
		"job_id": "j1",
		"original_classification": {"primary": "general-other", "confidence": 150},
		"user_correction": {"corrected_primary": "energy-utilities"}
	}`)

	assert.Error(t, ValidateFeedback(doc))
}

func TestValidateFeedback_BadLearningStatus(t *testing.T) {
	doc := []byte(`{
		"id": "f1",
		"job_id": "j1",
		"user_correction": {"corrected_primary": "energy-utilities"},
		"learning_status": "done"
	}`)

	assert.Error(t, ValidateFeedback(doc))
}

func TestValidateFeedback_MalformedJSON(t *testing.T) {
	assert.Error(t, ValidateFeedback([]byte("{not json")))
}
