package adjudicator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateChangeValidate(t *testing.T) {
	valid := []StateChange{
		{TargetType: TargetPlayer, TargetID: "p1", Field: FieldLife, Value: "-3"},
		{TargetType: TargetCard, TargetID: "c1", Field: FieldZone, Value: "GRAVEYARD"},
		{TargetType: TargetCard, TargetID: "c1", Field: FieldCounters, Value: "2", CounterName: "loyalty"},
		{TargetType: TargetCard, TargetID: "c1", Field: FieldDamage, Value: "4"},
	}
	for _, sc := range valid {
		assert.NoError(t, sc.Validate(), "%+v", sc)
	}

	bad := StateChange{TargetType: "token", TargetID: "x", Field: FieldLife, Value: "1"}
	assert.ErrorContains(t, bad.Validate(), `unknown target type "token"`)

	bad = StateChange{TargetType: TargetCard, TargetID: "c1", Field: "tapped", Value: "true"}
	assert.ErrorContains(t, bad.Validate(), `unknown field "tapped"`)

	bad = StateChange{TargetType: TargetPlayer, TargetID: "  ", Field: FieldLife, Value: "1"}
	assert.ErrorContains(t, bad.Validate(), "missing target id")
}

func TestNullAlwaysRulesNotLegal(t *testing.T) {
	resp, err := Null{}.Adjudicate(context.Background(), Request{State: "anything", Action: "anything"})
	require.NoError(t, err)
	assert.False(t, resp.Legal)
	assert.Equal(t, "no adjudicator configured", resp.Resolution)
	assert.Empty(t, resp.Changes)
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"legal": true}`, `{"legal": true}`},
		{"```json\n{\"legal\": true}\n```", `{"legal": true}`},
		{"```\n{\"legal\": true}\n```", `{"legal": true}`},
		{"  \n```json\n{\"legal\": true}\n```\n  ", `{"legal": true}`},
		{"no fences, just text", "no fences, just text"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, stripFences(tc.in))
	}
}

// The verdict shape the model is prompted for must decode into
// Response without field remapping.
func TestVerdictJSONDecodesIntoResponse(t *testing.T) {
	raw := `{
		"legal": true,
		"resolution": "Each opponent loses 3 life.",
		"reasoning": "The rack counts the empty hand.",
		"state_changes": [
			{"target_type": "player", "target_id": "bob", "field": "life", "value": "-3"},
			{"target_type": "card", "target_id": "abc", "field": "counters", "value": "1", "counter_name": "loyalty"}
		]
	}`

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	assert.True(t, resp.Legal)
	assert.Equal(t, "Each opponent loses 3 life.", resp.Resolution)
	assert.Equal(t, "The rack counts the empty hand.", resp.Reasoning)
	require.Len(t, resp.Changes, 2)
	assert.Equal(t, StateChange{TargetType: TargetPlayer, TargetID: "bob", Field: FieldLife, Value: "-3"}, resp.Changes[0])
	assert.Equal(t, "loyalty", resp.Changes[1].CounterName)
	for _, sc := range resp.Changes {
		assert.NoError(t, sc.Validate())
	}
}
