package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"blogcms/internal/repository"
)

// maxSlugAttempts bounds retries when a concurrent insert takes the slug
// between the existence check and the write.
const maxSlugAttempts = 5

// Slug column widths.
const (
	postSlugMaxLength     = 500
	categorySlugMaxLength = 200
)

type slugExistsFunc func(ctx context.Context, slug string) (bool, error)

// uniqueSlug derives a URL-safe slug of at most maxLen characters from source
// and appends -2, -3, ... until exists reports it free.
func uniqueSlug(ctx context.Context, source string, maxLen int, exists slugExistsFunc) (string, error) {
	base := slug.Make(source)
	if base == "" {
		base = "item"
	}

	candidate := truncateSlug(base, maxLen)
	for n := 2; ; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		suffix := "-" + strconv.Itoa(n)
		candidate = truncateSlug(base, maxLen-len(suffix)) + suffix
	}
}

// truncateSlug cuts s to maxLen runes without leaving a trailing hyphen.
func truncateSlug(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return strings.TrimRight(string(runes[:maxLen]), "-")
}

// saveWithSlug assigns a unique slug and runs save, retrying with a fresh slug
// when save loses a race on the unique constraint.
func saveWithSlug(ctx context.Context, source string, maxLen int, exists slugExistsFunc, assign func(string), save func() error) error {
	var err error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		var s string
		s, err = uniqueSlug(ctx, source, maxLen, exists)
		if err != nil {
			return err
		}
		assign(s)

		err = save()
		if !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
	}
	return fmt.Errorf("slug for %q: %w", source, ErrConflict)
}
