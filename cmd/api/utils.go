package main

import (
	"github.com/siahsang/realworld/internal/validator"
)

const minPasswordLength = 8

func checkEmail(v *validator.Validator, email string) {
	v.CheckNotBlank(email, "email", "can't be blank")
	v.CheckEmail(email, "email", "is invalid")
}

func checkUsername(v *validator.Validator, username string) {
	v.CheckNotBlank(username, "username", "can't be blank")
}

func checkPassword(v *validator.Validator, password string) {
	v.CheckNotBlank(password, "password", "can't be blank")
	if password != "" {
		v.Check(len(password) >= minPasswordLength, "password", "is too short (minimum is 8 characters)")
	}
}

// checkOptional validates a field of a partial update: when supplied it must
// not be blank.
func checkOptional(v *validator.Validator, value *string, key string) {
	if value != nil {
		v.CheckNotBlank(*value, key, "can't be blank")
	}
}
