package userservice

import (
	"github.com/sushihentaime/bloglist/internal/common"
)

const minCredentialLength = 3

func validateCredentials(v *common.Validator, username, password string) {
	v.Check(username != "", "username", "username is required")
	v.Check(password != "", "password", "password is required")
	if !v.Valid() {
		return
	}

	ok := len(username) >= minCredentialLength && len(password) >= minCredentialLength
	v.Check(ok, "credentials", "username and password must be at least 3 characters long")
}

func validateLogin(v *common.Validator, username, password string) {
	v.Check(username != "" && password != "", "credentials", "username and password required!")
}
