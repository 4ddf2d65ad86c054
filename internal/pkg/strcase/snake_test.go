package strcase

import "testing"

func TestToLowerSnake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Name", "name"},
		{"DateOfBirth", "date_of_birth"},
		{"userID", "user_id"},
		{"HTTPServer", "http_server"},
		{"AccessToken", "access_token"},
		{"already_snake", "already_snake"},
	}

	for _, tc := range cases {
		if got := ToLowerSnake(tc.in); got != tc.want {
			t.Errorf("ToLowerSnake(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
