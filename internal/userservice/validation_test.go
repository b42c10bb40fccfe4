package userservice

import (
	"testing"

	"github.com/sushihentaime/bloglist/internal/common"
)

func TestValidateCredentials(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
		valid    bool
		message  string
	}{
		{name: "valid", username: "root", password: "sekret", valid: true},
		{name: "minimum length", username: "abc", password: "abc", valid: true},
		{name: "missing username", username: "", password: "sekret", valid: false, message: "username is required"},
		{name: "missing password", username: "root", password: "", valid: false, message: "password is required"},
		{name: "missing both", username: "", password: "", valid: false, message: "username is required"},
		{name: "short username", username: "ab", password: "sekret", valid: false, message: "username and password must be at least 3 characters long"},
		{name: "short password", username: "root", password: "ab", valid: false, message: "username and password must be at least 3 characters long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateCredentials(v, tc.username, tc.password)
			if v.Valid() != tc.valid {
				t.Fatalf("expected valid=%v, got %v", tc.valid, v.Valid())
			}

			if tc.valid {
				return
			}

			validationErr := v.ValidationError().(common.ValidationError)
			if validationErr.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, validationErr.Message)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
		valid    bool
	}{
		{name: "valid", username: "root", password: "sekret", valid: true},
		{name: "missing username", username: "", password: "sekret", valid: false},
		{name: "missing password", username: "root", password: "", valid: false},
		{name: "missing both", username: "", password: "", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateLogin(v, tc.username, tc.password)
			if v.Valid() != tc.valid {
				t.Errorf("expected valid=%v, got %v", tc.valid, v.Valid())
			}
		})
	}
}
