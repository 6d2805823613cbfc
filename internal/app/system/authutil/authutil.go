// internal/app/system/authutil/authutil.go
// Package authutil provides password hashing and credential checks shared
// by login and account seeding.
package authutil

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// getDummyHash returns a bcrypt hash at BcryptCost used to equalize the
// timing of logins for unknown accounts.
func getDummyHash() []byte {
	dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("strataevents-no-such-user"), BcryptCost)
		if err != nil {
			panic(err)
		}
		dummyHash = h
	})
	return dummyHash
}

// VerifyCredentials reports whether password matches hash. An empty hash
// (unknown account, or an account without a password) never matches but
// still costs one bcrypt comparison.
func VerifyCredentials(hash, password string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(getDummyHash(), []byte(password))
		return false
	}
	return CheckPassword(password, hash)
}
