package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "The library opens at eight",
			want: "The library opens at eight",
		},
		{
			name: "bold and italic stripped",
			in:   "This is **very** *important* text",
			want: "This is very important text",
		},
		{
			name: "inline code stripped",
			in:   "Run the `register` command",
			want: "Run the register command",
		},
		{
			name: "note label expanded",
			in:   "**Note:** Fees are 10%",
			want: "Please note that Fees are 10 percent",
		},
		{
			name: "important label expanded",
			in:   "Important: carry your ID card",
			want: "This is important carry your ID card",
		},
		{
			name: "remember label expanded",
			in:   "remember: the deadline is Friday",
			want: "Remember that the deadline is Friday",
		},
		{
			name: "ordered list flattened",
			in:   "1. Fill the form\n2. Pay the fee\n3. Collect the receipt",
			want: "First Fill the form Next Pay the fee Next Collect the receipt",
		},
		{
			name: "unordered list flattened",
			in:   "- bring your ID\n- bring the receipt\n- arrive early",
			want: "bring your ID Also bring the receipt Also arrive early",
		},
		{
			name: "slash becomes or",
			in:   "open weekdays/weekends",
			want: "open weekdays or weekends",
		},
		{
			name: "hyphen collapses to space",
			in:   "the check-in desk",
			want: "the check in desk",
		},
		{
			name: "percent spelled out",
			in:   "attendance must be 75 %",
			want: "attendance must be 75 percent",
		},
		{
			name: "units kept as digits",
			in:   "processing takes 3 hours or 10 days",
			want: "processing takes 3 hours or 10 days",
		},
		{
			name: "symbols removed",
			in:   `see [the portal] {here} <link> "quoted" #tag @office`,
			want: "see the portal here link quoted tag office",
		},
		{
			name: "spoken punctuation removed",
			in:   "Yes! Really? Sure, fine; done: now.",
			want: "Yes Really Sure fine done now",
		},
		{
			name: "whitespace flattened",
			in:   "line one\n\nline   two\t end ",
			want: "line one line two end",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"**Note:** Fees are 10%",
		"1. First item\n2. Second item",
		"- bullet one\n- bullet two",
		"Important: deadline is 5 days away, check-in at 9!",
		"a/b testing with `code` and _emphasis_",
		"plain text already",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize is not idempotent for %q", in)
	}
}

func TestNormalizeSpeechSafety(t *testing.T) {
	out := Normalize("**Note:** Fees are 10% of the total/annual amount!")
	assert.NotContains(t, out, "*")
	assert.NotContains(t, out, "%")
	assert.NotContains(t, out, "/")
	assert.NotContains(t, out, "!")
	assert.Contains(t, out, "Please note that")
	assert.Contains(t, out, "10 percent")
}
