package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ParserOutput(t *testing.T) {
	got, err := Parse(document("CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0 " +
		"IT202 WEB DESIGN C TTH 1:00-2:30PM VR2 3.0 " +
		"PE1 PHYSICAL EDUCATION A 2.0"))
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NoError(t, ValidateJSON(data))

	decoded, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, got, decoded)
}

func TestValidateJSON_EmptySchedule(t *testing.T) {
	assert.NoError(t, ValidateJSON([]byte(`{"courses":[]}`)))
}

func TestValidateJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{"courses":`},
		{name: "missing courses", data: `{}`},
		{name: "null courses", data: `{"courses":null}`},
		{
			name: "unknown day",
			data: `{"courses":[{"code":"CS101","name":"INTRO","section":"A","units":"3.0",` +
				`"schedules":[{"day":"X","time_range":"7:30-9:00AM","room":"Room 301"}]}]}`,
		},
		{
			name: "lowercase code",
			data: `{"courses":[{"code":"cs101","name":"INTRO","section":"A","units":"3.0","schedules":[]}]}`,
		},
		{
			name: "missing schedules",
			data: `{"courses":[{"code":"CS101","name":"INTRO","section":"A","units":"3.0"}]}`,
		},
		{
			name: "extra field",
			data: `{"courses":[{"code":"CS101","name":"INTRO","section":"A","units":"3.0","schedules":[],"x":1}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateJSON([]byte(tt.data)))

			_, err := DecodeJSON([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSchemaJSON_ReturnsCopy(t *testing.T) {
	a := SchemaJSON()
	require.NotEmpty(t, a)
	a[0] = 'x'
	assert.NotEqual(t, a[0], SchemaJSON()[0])
	assert.True(t, json.Valid(SchemaJSON()))
}
