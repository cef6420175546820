package llm

import (
	"errors"
	"testing"
)

func TestStripThink(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"none", `{"a":1}`, `{"a":1}`},
		{"single", "<think>hmm {\"x\":1}</think>{\"a\":1}", `{"a":1}`},
		{"multiline", "<think>\nline\n</think>\nok", "\nok"},
		{"repeated", "<think>a</think>x<think>b</think>done", "xdone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripThink(tc.in); got != tc.want {
				t.Fatalf("StripThink(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "bare", in: `{"summary":"s","rating":5}`, want: `{"summary":"s","rating":5}`},
		{name: "prose around", in: "Here you go:\n{\"a\":{\"b\":2}}\nThanks", want: `{"a":{"b":2}}`},
		{name: "braces in strings", in: `note {"summary":"use } and { freely","rating":1}`, want: `{"summary":"use } and { freely","rating":1}`},
		{name: "escaped quote", in: `{"summary":"say \"}\" ok"}`, want: `{"summary":"say \"}\" ok"}`},
		{name: "think ignored", in: `<think>{"rating":1}</think>{"rating":2}`, want: `{"rating":2}`},
		{name: "markers", in: "draft {\"rating\":1}\n<<<RESULT\n{\"rating\":3}\nRESULT>>>", want: `{"rating":3}`},
		{name: "unclosed then valid", in: `{ broken {"rating":4}`, want: `{"rating":4}`},
		{name: "no object", in: "nothing here", wantErr: ErrExtraction},
		{name: "empty", in: "", wantErr: ErrExtraction},
		{name: "invalid json", in: `{summary: nope}`, wantErr: ErrMalformedPayload},
		{name: "ambiguous", in: `{"rating":1} and {"rating":2}`, wantErr: ErrMalformedPayload},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractObject(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v (%s)", tc.wantErr, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
