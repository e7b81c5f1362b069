package core

import (
	"errors"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/data"
)

const (
	slugSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugSuffixLength   = 6

	// maxSlugAttempts bounds how often a write is retried with a fresh
	// suffix after a slug collision.
	maxSlugAttempts = 3

	// feedSlug is routed to the personal feed, so no article may own it.
	feedSlug = "feed"
)

// SlugGenerator derives URL slugs from article titles.
type SlugGenerator struct {
	RandomSuffix bool
}

func NewSlugGenerator(randomSuffix bool) *SlugGenerator {
	return &SlugGenerator{RandomSuffix: randomSuffix}
}

// Make transliterates title to a lowercase hyphenated slug, adding a random
// suffix when configured. A title with nothing to transliterate is only
// accepted when the suffix can stand in for it. Without a suffix the
// reserved slug "feed" is reported as taken.
func (g *SlugGenerator) Make(title string) (string, error) {
	base := slug.Make(title)

	if !g.RandomSuffix {
		switch base {
		case "":
			return "", xerrors.New(ErrInvalidTitle)
		case feedSlug:
			return "", xerrors.New(ErrDuplicateSlug)
		}
		return base, nil
	}

	suffix, err := gonanoid.Generate(slugSuffixAlphabet, slugSuffixLength)
	if err != nil {
		return "", xerrors.New(err)
	}
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

// withUniqueSlug runs write with a slug made from title. With random
// suffixes a collision is retried with a new slug; otherwise it is reported
// as ErrDuplicateSlug.
func (c *Core) withUniqueSlug(title string, write func(slug string) error) (string, error) {
	attempts := 1
	if c.slugs.RandomSuffix {
		attempts = maxSlugAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		s, err := c.slugs.Make(title)
		if err != nil {
			return "", err
		}

		err = write(s)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, data.ErrDuplicateSlug) {
			return "", translate(err)
		}
		c.log.Debug("slug collision", "slug", s, "attempt", attempt)
	}

	return "", xerrors.New(ErrDuplicateSlug)
}
