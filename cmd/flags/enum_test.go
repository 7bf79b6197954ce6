package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumValue(t *testing.T) {
	var dest string
	e := &EnumValue{Name: "format", Destination: &dest, Enum: []string{"text", "json"}, Value: "text"}
	assert.Equal(t, "text", e.String())

	require.NoError(t, e.Set("json"))
	assert.Equal(t, "json", dest)
	assert.Equal(t, "json", e.String())

	assert.ErrorContains(t, e.Set("xml"), "allowed values are text, json")
	assert.Equal(t, "json", dest)
}

func TestEnumValue_GenericFlag(t *testing.T) {
	var dest string
	f := EnumValue{Name: "format", Destination: &dest, Enum: []string{"text", "json"}, Value: "text"}.GenericFlag()
	assert.Equal(t, "format", f.Name)
	assert.Equal(t, "text", dest)
	assert.Equal(t, "text", f.Value.String())
}
