package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldType_RoundTrip(t *testing.T) {
	types := []FieldType{
		TypeString, TypeText, TypeInt, TypeFloat,
		TypeBool, TypeTimestamp, TypeUUID, TypeJSON,
	}

	for _, ft := range types {
		parsed, err := ParseFieldType(ft.String())
		require.NoError(t, err, ft.String())
		assert.Equal(t, ft, parsed)
	}
}

func TestParseFieldType_Unknown(t *testing.T) {
	_, err := ParseFieldType("decimal")
	assert.Error(t, err)
}
