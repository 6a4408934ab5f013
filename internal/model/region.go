package model

import (
	"encoding/json"
	"sort"
	"strings"
)

// RegionSet is an ordered list of distinct, trimmed, non-empty region names.
// Insertion order is kept for display. Add and Remove never modify the
// receiver; they return a new set.
type RegionSet struct {
	names []string
}

// NewRegionSet builds a set by adding every name in order
func NewRegionSet(names ...string) RegionSet {
	set := RegionSet{}
	for _, name := range names {
		set = set.Add(name)
	}
	return set
}

// Add appends a trimmed region. Empty names and exact (case-sensitive)
// duplicates leave the set unchanged.
func (s RegionSet) Add(region string) RegionSet {
	region = strings.TrimSpace(region)
	if region == "" || s.Contains(region) {
		return s
	}

	names := make([]string, len(s.names), len(s.names)+1)
	copy(names, s.names)
	return RegionSet{names: append(names, region)}
}

// Remove drops the matching region. Removing an absent region is a no-op.
func (s RegionSet) Remove(region string) RegionSet {
	region = strings.TrimSpace(region)
	for i, name := range s.names {
		if name != region {
			continue
		}
		names := make([]string, 0, len(s.names)-1)
		names = append(names, s.names[:i]...)
		names = append(names, s.names[i+1:]...)
		return RegionSet{names: names}
	}
	return s
}

// Contains reports whether region is an exact member of the set
func (s RegionSet) Contains(region string) bool {
	for _, name := range s.names {
		if name == region {
			return true
		}
	}
	return false
}

// Names returns the regions in insertion order
func (s RegionSet) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Sorted returns the regions in case-sensitive lexical order
func (s RegionSet) Sorted() []string {
	names := s.Names()
	sort.Strings(names)
	return names
}

func (s RegionSet) Len() int { return len(s.names) }

func (s RegionSet) IsEmpty() bool { return len(s.names) == 0 }

// MarshalJSON encodes the set as a plain array in display order
func (s RegionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON applies the Add rules to every decoded name
func (s *RegionSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewRegionSet(names...)
	return nil
}
