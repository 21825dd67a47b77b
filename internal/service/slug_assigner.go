package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/daniilk04/tracker/pkg/slug"
)

// How many times a creation is retried after losing a concurrent slug race.
// The store's unique constraint is the authoritative guard, the probe loop
// below is only a best-effort pre-check.
const slugRaceRetries = 3

// assignSlug derives the first free slug for a title within an owner's scope:
// the normalized base form, then base-1, base-2 and so on. The taken callback
// is the scope's existence check.
func assignSlug(ctx context.Context, title string, taken func(context.Context, string) (bool, error)) (string, error) {
	base := slug.Make(title)
	candidate := base
	for i := 1; ; i++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", errors.New("probing slug error: " + err.Error())
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
