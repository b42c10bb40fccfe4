package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor all stored password hashes use. Changing it
// only affects new hashes; compare reads the factor from the hash itself.
const bcryptCost = 10

func (p *Password) set(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return err
	}

	p.hash = hash
	return nil
}

func (p *Password) compare(plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
