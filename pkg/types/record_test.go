package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlavor(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Flavor
		wantOK bool
	}{
		{name: "stack upper case", input: "STACK", want: FlavorStack, wantOK: true},
		{name: "stack lower case", input: "stack", want: FlavorStack, wantOK: true},
		{name: "stack mixed case", input: "StAcK", want: FlavorStack, wantOK: true},
		{name: "independent upper case", input: "INDEPENDENT", want: FlavorIndependent, wantOK: true},
		{name: "independent lower case", input: "independent", want: FlavorIndependent, wantOK: true},
		{name: "empty string unrecognized", input: "", want: "", wantOK: false},
		{name: "unknown flavor unrecognized", input: "BATCH", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFlavor(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRecordJSONShape(t *testing.T) {
	rec := Record{
		Flavor:    FlavorStack,
		Operation: "Plus",
		Arguments: []int64{4, 3},
		Result:    7,
	}

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"flavor":"STACK","operation":"Plus","arguments":[4,3],"result":7}`, string(out))
}

func TestTapeRecordJSONShape(t *testing.T) {
	rec := TapeRecord{
		ID: 12,
		Record: Record{
			Flavor:    FlavorIndependent,
			Operation: "fact",
			Arguments: []int64{5},
			Result:    120,
		},
	}

	out, err := json.Marshal(rec)
	require.NoError(t, err)

	// The embedded Record fields must flatten next to the identifier.
	assert.JSONEq(t, `{"id":12,"flavor":"INDEPENDENT","operation":"fact","arguments":[5],"result":120}`, string(out))
}
