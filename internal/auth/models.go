package auth

import "github.com/golang-jwt/jwt/v5"

// User is a row of the users table. Token is only set on the way out.
type User struct {
	ID           int64   `json:"-"`
	Email        string  `json:"email"`
	Token        string  `json:"token"`
	Username     string  `json:"username"`
	Bio          *string `json:"bio"`
	Image        *string `json:"image"`
	PasswordHash []byte  `json:"-"`
}

// UserClaim is the JWT payload: who the token belongs to and when it expires.
type UserClaim struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`

	jwt.RegisteredClaims
}
