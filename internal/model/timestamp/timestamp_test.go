package timestamp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateOnly(t *testing.T) {
	parsed, err := Parse("2024-02-21")
	require.NoError(t, err)

	expected := time.Date(2024, 2, 21, 0, 0, 0, 0, time.Now().Location())
	assert.True(t, expected.Equal(parsed.Time()))
}

func TestParseDateTimeLocal(t *testing.T) {
	parsed, err := Parse("2024-02-21T01:02:03")
	require.NoError(t, err)

	expected := time.Date(2024, 2, 21, 1, 2, 3, 0, time.Now().Location())
	assert.True(t, expected.Equal(parsed.Time()))
}

func TestParseRFC3339(t *testing.T) {
	parsed, err := Parse("2024-02-21T01:02:03Z")
	require.NoError(t, err)

	expected := time.Date(2024, 2, 21, 1, 2, 3, 0, time.UTC)
	assert.True(t, expected.Equal(parsed.Time()))
}

func TestParseWithOffset(t *testing.T) {
	parsed, err := Parse("2024-02-01T01:02:03-07:00")
	require.NoError(t, err)

	expected := time.Date(2024, 2, 1, 8, 2, 3, 0, time.UTC)
	assert.True(t, expected.Equal(parsed.Time()))
}

func TestParseRejectsUnrecognizedLayouts(t *testing.T) {
	for _, value := range []string{"", "02/21/2024", "2024-02-21 01:02:03", "not-a-timestamp"} {
		_, err := Parse(value)
		assert.Error(t, err, "expected %q to be rejected", value)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	var parsed Timestamp
	err := json.Unmarshal([]byte(`"2024-02-21T01:02:03Z"`), &parsed)
	require.NoError(t, err)

	expected := time.Date(2024, 2, 21, 1, 2, 3, 0, time.UTC)
	assert.True(t, expected.Equal(parsed.Time()))
}

func TestUnmarshalJSONIgnoresEmptyValues(t *testing.T) {
	for _, value := range []string{"null", `""`} {
		var parsed Timestamp
		err := json.Unmarshal([]byte(value), &parsed)
		require.NoError(t, err)
		assert.True(t, parsed.IsZero())
	}
}

func TestMarshalJSONRoundTrip(t *testing.T) {
	original := Timestamp(time.Date(2024, 2, 21, 1, 2, 3, 0, time.UTC))

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Timestamp
	err = json.Unmarshal(encoded, &decoded)
	require.NoError(t, err)

	assert.True(t, original.Time().Equal(decoded.Time()))
}
