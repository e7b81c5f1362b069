// Package data holds the thin data-access layer. Every method receives the
// executor to run on (the pool or an open transaction) as an explicit
// argument and never keeps connection state of its own.
package data

import (
	"github.com/mdobak/go-xerrors"
)

var (
	ErrRecordNotFound    = xerrors.Message("record not found")
	ErrDuplicateEmail    = xerrors.Message("duplicate email")
	ErrDuplicateUsername = xerrors.Message("duplicate username")
	ErrDuplicateSlug     = xerrors.Message("duplicate slug")
)

type Models struct {
	Users    UserModel
	Profiles ProfileModel
	Articles ArticleModel
	Comments CommentModel
	Tags     TagModel
}

func NewModels() Models {
	return Models{}
}

// nullableID turns an optional id into a bind argument; an absent id binds
// NULL, which never equals any row.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
