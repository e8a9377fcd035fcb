package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/go-faster/errors"
)

// resolveInitiative finds an initiative of year by exact id, then by
// case-insensitive title, then by unique id prefix.
func resolveInitiative(ctx context.Context, app *App, year int, input string) (*domain.Initiative, error) {
	if input == "" {
		return nil, errors.New("initiative ID is required")
	}

	inits, err := app.Initiatives.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	for _, i := range inits {
		if i.ID == input {
			return i, nil
		}
	}

	for _, i := range inits {
		if strings.EqualFold(i.Title, input) {
			return i, nil
		}
	}

	var matches []*domain.Initiative
	for _, i := range inits {
		if strings.HasPrefix(i.ID, input) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return nil, errors.Errorf("initiative not found in %d: %q", year, input)
	case 1:
		return matches[0], nil
	default:
		return nil, errors.Errorf("initiative ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveSnapshot finds a snapshot of year by id, label or unique id prefix.
func resolveSnapshot(ctx context.Context, app *App, year int, input string) (*domain.PlanSnapshot, error) {
	snaps, err := app.Snapshots.List(ctx, year)
	if err != nil {
		return nil, err
	}

	var matches []*domain.PlanSnapshot
	for _, s := range snaps {
		if s.ID == input || s.Label == input {
			return s, nil
		}
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, errors.Errorf("snapshot not found in %d: %q", year, input)
	case 1:
		return matches[0], nil
	default:
		return nil, errors.Errorf("snapshot ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
