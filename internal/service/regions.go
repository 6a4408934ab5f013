package service

import (
	"fmt"
	"strings"

	"propinsight/internal/model"
)

// RegionAction is an edit applied to a region set
type RegionAction string

const (
	RegionActionAdd    RegionAction = "add"
	RegionActionRemove RegionAction = "remove"
)

// ParseRegionAction accepts "add" or "remove" in any case
func ParseRegionAction(raw string) (RegionAction, error) {
	switch action := RegionAction(strings.ToLower(strings.TrimSpace(raw))); action {
	case RegionActionAdd, RegionActionRemove:
		return action, nil
	default:
		return "", model.NewValidationError("action", fmt.Errorf("unknown region action %q", raw))
	}
}

// ApplyRegionAction returns set with the action applied. The input set is
// never modified.
func ApplyRegionAction(set model.RegionSet, action RegionAction, region string) (model.RegionSet, error) {
	switch action {
	case RegionActionAdd:
		return set.Add(region), nil
	case RegionActionRemove:
		return set.Remove(region), nil
	default:
		return set, model.NewValidationError("action", fmt.Errorf("unknown region action %q", action))
	}
}
