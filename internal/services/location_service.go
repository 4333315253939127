package services

import (
	"context"
	"slices"
	"strings"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/models/entities"
)

// LocationSelector enforces the state -> primary base -> secondary bases cascade.
type LocationSelector struct {
	fields FieldDictionary
}

func NewLocationSelector(fields FieldDictionary) *LocationSelector {
	return &LocationSelector{fields: fields}
}

// ValidFields lists the fields registered for the pair. The all-states
// sentinel has no fields and never reaches the dictionary.
func (l *LocationSelector) ValidFields(ctx context.Context, state string, gameType constants.GameType) ([]string, error) {
	if !gameType.IsValid() {
		return nil, apperr.Validation("game_type", "unknown game type %q", gameType)
	}
	if state == constants.AllRegions {
		return []string{}, nil
	}
	if !constants.IsKnownState(state) {
		return nil, apperr.Validation("state", "unknown state %q", state)
	}

	fields, err := l.fields.FieldsFor(ctx, state, gameType)
	if err != nil {
		return nil, apperr.Transport("load fields", err)
	}
	if fields == nil {
		fields = []string{}
	}
	return fields, nil
}

// SetPrimary sets the primary base and drops it from the secondary list.
// An empty field clears the primary base.
func (l *LocationSelector) SetPrimary(ctx context.Context, clan *entities.Clan, field string) error {
	field = strings.TrimSpace(field)
	if field == "" {
		clan.PrimaryBase = nil
		return nil
	}

	valid, err := l.validFieldsFor(ctx, clan, "primary_base")
	if err != nil {
		return err
	}
	if !slices.Contains(valid, field) {
		return apperr.Validation("primary_base", "%q is not a %s field in %s", field, clan.GameType, clan.State)
	}

	clan.PrimaryBase = &field
	clan.SecondaryBases = slices.DeleteFunc(slices.Clone(clan.SecondaryBases), func(f string) bool { return f == field })
	return nil
}

// SetSecondary replaces the secondary bases. The clan is left untouched on rejection.
func (l *LocationSelector) SetSecondary(ctx context.Context, clan *entities.Clan, fields []string) error {
	if len(fields) > constants.MaxSecondaryBases {
		return apperr.Validation("secondary_bases", "must have at most %d entries", constants.MaxSecondaryBases)
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			return apperr.Validation("secondary_bases", "entries must not be empty")
		}
		if _, dup := seen[f]; dup {
			return apperr.Validation("secondary_bases", "%q is listed twice", f)
		}
		seen[f] = struct{}{}
		if clan.PrimaryBase != nil && *clan.PrimaryBase == f {
			return apperr.Validation("secondary_bases", "%q is already the primary base", f)
		}
	}

	if len(fields) > 0 {
		valid, err := l.validFieldsFor(ctx, clan, "secondary_bases")
		if err != nil {
			return err
		}
		for _, f := range fields {
			if !slices.Contains(valid, f) {
				return apperr.Validation("secondary_bases", "%q is not a %s field in %s", f, clan.GameType, clan.State)
			}
		}
	}

	clan.SecondaryBases = slices.Clone(fields)
	if clan.SecondaryBases == nil {
		clan.SecondaryBases = []string{}
	}
	return nil
}

// ChangeState moves the clan to state. Moving to a different state clears both bases.
func (l *LocationSelector) ChangeState(clan *entities.Clan, state string) error {
	if !constants.IsKnownState(state) {
		return apperr.Validation("state", "unknown state %q", state)
	}
	if state == clan.State {
		return nil
	}
	clan.State = state
	clan.PrimaryBase = nil
	clan.SecondaryBases = []string{}
	return nil
}

func (l *LocationSelector) validFieldsFor(ctx context.Context, clan *entities.Clan, field string) ([]string, error) {
	if clan.State == constants.AllRegions {
		return nil, apperr.Validation(field, "choose a state before picking bases")
	}
	return l.ValidFields(ctx, clan.State, clan.GameType)
}
