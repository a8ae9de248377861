package main

import (
	"net/http/httptest"
	"testing"
)

func TestCheckAuth(t *testing.T) {
	cases := []struct {
		name   string
		header string
		token  string
		want   bool
	}{
		{"valid", "Bearer secret", "secret", true},
		{"wrong token", "Bearer nope", "secret", false},
		{"missing header", "", "secret", false},
		{"empty configured token", "Bearer ", "", false},
		{"no scheme", "secret", "secret", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/v1/turn", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if got := checkAuth(r, tc.token); got != tc.want {
				t.Fatalf("checkAuth = %v, want %v", got, tc.want)
			}
		})
	}
}
