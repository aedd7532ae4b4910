package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseData(t *testing.T) {
	cases := []struct {
		raw, key, payload string
	}{
		{"approve:42", "approve", "42"},
		{"reject:-100", "reject", "-100"},
		{"\fmenu|open", "menu", "open"},
		{"\fmenu", "menu", ""},
		{"plain", "plain", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		key, payload := ParseData(tc.raw)
		if key != tc.key || payload != tc.payload {
			t.Fatalf("ParseData(%q) = %q, %q; want %q, %q", tc.raw, key, payload, tc.key, tc.payload)
		}
	}
}

func TestParsePrefersUnique(t *testing.T) {
	key, payload := Parse(&tele.Callback{Unique: "menu", Data: "x:y"})
	if key != "menu" || payload != "x:y" {
		t.Fatalf("Parse = %q, %q", key, payload)
	}
	if key, payload := Parse(nil); key != "" || payload != "" {
		t.Fatalf("Parse(nil) = %q, %q", key, payload)
	}
}
