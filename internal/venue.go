package internal

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var venueIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Venue is a place events can refer to by VenueID.
type Venue struct {
	ID            string        `json:"venue_id" yaml:"venue_id"`
	CanonicalName string        `json:"canonical_name" yaml:"canonical_name"`
	Aliases       []string      `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Address       VenueAddress  `json:"address,omitempty" yaml:"address,omitempty"`
	Contact       *VenueContact `json:"contact,omitempty" yaml:"contact,omitempty"`
	PrimaryCues   []string      `json:"primary_cues,omitempty" yaml:"primary_cues,omitempty"`
	SecondaryCues []string      `json:"secondary_cues,omitempty" yaml:"secondary_cues,omitempty"`
	NegativeCues  []string      `json:"negative_cues,omitempty" yaml:"negative_cues,omitempty"`
	Sources       []string      `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// VenueContact is how to reach a venue.
type VenueContact struct {
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Website string `json:"website,omitempty" yaml:"website,omitempty"`
}

// VenueAddress is either a free-form line or street/city/region/country
// parts. Venue files use both shapes.
type VenueAddress struct {
	Line     string `json:"-" yaml:"-"`
	Street   string `json:"street,omitempty" yaml:"street,omitempty"`
	City     string `json:"city,omitempty" yaml:"city,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Country  string `json:"country,omitempty" yaml:"country,omitempty"`
	Postcode string `json:"postcode,omitempty" yaml:"postcode,omitempty"`
}

// UnmarshalJSON accepts a string or an object.
func (a *VenueAddress) UnmarshalJSON(data []byte) error {
	var line string
	if err := json.Unmarshal(data, &line); err == nil {
		*a = VenueAddress{Line: strings.TrimSpace(line)}
		return nil
	}
	type parts VenueAddress
	var p parts
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("address must be a string or an object: %w", err)
	}
	*a = VenueAddress(p)
	return nil
}

// String renders the address on one line.
func (a VenueAddress) String() string {
	if a.Line != "" {
		return a.Line
	}
	var parts []string
	for _, p := range []string{a.Street, a.City, a.Region, a.Postcode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Validate checks the fields every venue needs.
func (v Venue) Validate() error {
	if !venueIDPattern.MatchString(v.ID) {
		return fmt.Errorf("invalid venue_id %q: use lower-case letters, digits and dashes", v.ID)
	}
	if strings.TrimSpace(v.CanonicalName) == "" {
		return fmt.Errorf("venue %s has no canonical_name", v.ID)
	}
	return nil
}

// Matches reports whether name is the venue's canonical name or an alias.
func (v Venue) Matches(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if strings.EqualFold(name, v.CanonicalName) {
		return true
	}
	for _, alias := range v.Aliases {
		if strings.EqualFold(name, strings.TrimSpace(alias)) {
			return true
		}
	}
	return false
}
