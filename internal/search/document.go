// Package search provides full-text search over the maker directory using Bleve.
// It supports fuzzy matching, prefix queries for autocomplete, and faceted
// filtering by craft type, specialty, and city.
package search

import (
	"github.com/londonmakers/makers-server/internal/domain"
)

// ArtistDocument is the document structure indexed for each artist listing.
//
// Design note: we denormalize the maker's name and location city into the
// document so a single query covers everything a visitor might type. The
// trade-off is reindexing on every listing update, which is cheap at
// directory scale.
type ArtistDocument struct {
	// Identity
	ID string `json:"id"` // Artist listing ID (artist_xxx)

	// Primary searchable text
	BusinessName string `json:"business_name"`
	MakerName    string `json:"maker_name"`

	// Craft classification
	Type        string   `json:"type"`        // ceramics, textiles, woodwork, ...
	Specialties []string `json:"specialties"` // free-form craft tags

	// Searchable prose
	Description string `json:"description,omitempty"`

	// Location
	City string `json:"city,omitempty"`

	// Flags
	Featured bool `json:"featured"`

	// Timestamps for sorting. Unix millis.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *ArtistDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":            d.ID,
		"business_name": d.BusinessName,
		"maker_name":    d.MakerName,
		"type":          d.Type,
		"featured":      d.Featured,
		"created_at":    d.CreatedAt,
		"updated_at":    d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.City != "" {
		m["city"] = d.City
	}
	if len(d.Specialties) > 0 {
		m["specialties"] = d.Specialties
	}

	return m
}

// ArtistToDocument converts a domain Artist to its search document.
func ArtistToDocument(a *domain.Artist) *ArtistDocument {
	return &ArtistDocument{
		ID:           a.ID,
		BusinessName: a.BusinessName,
		MakerName:    a.Maker.Name,
		Type:         a.Type,
		Specialties:  a.Specialties,
		Description:  a.Description,
		City:         a.Location.City,
		Featured:     a.Featured,
		CreatedAt:    a.CreatedAt.UnixMilli(),
		UpdatedAt:    a.UpdatedAt.UnixMilli(),
	}
}
