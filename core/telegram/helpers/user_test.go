package helpers

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestFullName(t *testing.T) {
	cases := []struct {
		user *tele.User
		want string
	}{
		{nil, ""},
		{&tele.User{FirstName: "Ann"}, "Ann"},
		{&tele.User{FirstName: "Ann", LastName: "Lee"}, "Ann Lee"},
		{&tele.User{FirstName: " Ann ", LastName: ""}, "Ann"},
	}
	for _, tc := range cases {
		if got := FullName(tc.user); got != tc.want {
			t.Fatalf("FullName(%+v) = %q, want %q", tc.user, got, tc.want)
		}
	}
}

func TestUsername(t *testing.T) {
	if got := Username(&tele.User{Username: "@ann"}); got != "ann" {
		t.Fatalf("Username = %q", got)
	}
	if got := Username(&tele.User{}); got != "" {
		t.Fatalf("Username = %q, want empty", got)
	}
}
