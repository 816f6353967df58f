package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchSchema() *Schema {
	return New(
		Field{Name: "q", Type: String},
		Field{Name: "limit", Type: Number, Optional: true},
		Field{Name: "safe", Type: Boolean, Optional: true},
		Field{Name: "tags", Type: StringArray, Optional: true},
	)
}

func keys(values *Values) []string {
	var out []string
	for pair := values.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func TestValidate_KeepsInputOrder(t *testing.T) {
	args, err := DecodeArgs([]byte(`{"limit": 5, "tags": ["a","b"], "q": "cats", "safe": false}`))
	require.NoError(t, err)

	values, err := searchSchema().Validate(args)
	require.NoError(t, err)

	assert.Equal(t, []string{"limit", "tags", "q", "safe"}, keys(values))

	limit, _ := values.Get("limit")
	assert.Equal(t, "5", limit.QueryString())
	tags, _ := values.Get("tags")
	assert.Equal(t, "a,b", tags.QueryString())
	safe, _ := values.Get("safe")
	assert.Equal(t, "false", safe.QueryString())
}

func TestValidate_DropsUnknownAndNull(t *testing.T) {
	args, err := DecodeArgs([]byte(`{"q": "cats", "extra": 1, "limit": null}`))
	require.NoError(t, err)

	values, err := searchSchema().Validate(args)
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, keys(values))
}

func TestValidate_RejectsNullArrayItems(t *testing.T) {
	args, err := DecodeArgs([]byte(`{"q": "cats", "tags": ["a", null]}`))
	require.NoError(t, err)

	_, err = searchSchema().Validate(args)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"tags: expected array<string>"}, verr.Issues)

	args, err = DecodeArgs([]byte(`{"q": "cats", "tags": []}`))
	require.NoError(t, err)
	values, err := searchSchema().Validate(args)
	require.NoError(t, err)
	tags, _ := values.Get("tags")
	assert.Equal(t, "", tags.QueryString())
}

func TestValidate_ReportsEveryIssue(t *testing.T) {
	args, err := DecodeArgs([]byte(`{"limit": "five", "tags": [1, 2]}`))
	require.NoError(t, err)

	_, err = searchSchema().Validate(args)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{
		"limit: expected number",
		"tags: expected array<string>",
		"q: required",
	}, verr.Issues)
}

func TestValidate_TypeMismatchOnRequiredReportedOnce(t *testing.T) {
	args, err := DecodeArgs([]byte(`{"q": 3}`))
	require.NoError(t, err)

	_, err = searchSchema().Validate(args)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"q: expected string"}, verr.Issues)
}

func TestDecodeArgs(t *testing.T) {
	for _, in := range []string{"", "  ", "null"} {
		args, err := DecodeArgs([]byte(in))
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, 0, args.Len())
	}

	_, err := DecodeArgs([]byte(`["q"]`))
	assert.Error(t, err)
}

func TestValue_MarshalJSON(t *testing.T) {
	args, err := DecodeArgs([]byte(`{"q":"cats","limit":5,"tags":[]}`))
	require.NoError(t, err)

	v, err := searchSchema().Validate(args)
	require.NoError(t, err)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"q":"cats","limit":5,"tags":[]}`, string(data))
}

func TestValue_NumberFormatting(t *testing.T) {
	assert.Equal(t, "1.5", NumberValue(1.5).QueryString())
	assert.Equal(t, "-3", NumberValue(-3).QueryString())
	assert.Equal(t, "x", StringValue("x").QueryString())
	assert.Equal(t, "true", BooleanValue(true).QueryString())
}
