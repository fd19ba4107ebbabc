package domain

import "time"

// ArtistType is the kind of craft a maker practices.
// Free-form on purpose - the directory grows new categories faster than
// we can enumerate them.
type ArtistType = string

// MakerInfo holds the contact details of the person behind a listing.
type MakerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// Location is the listing's physical address. State is optional because
// most listings are London-based.
type Location struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip"`
}

// Socials holds the listing's social media handles. All optional.
type Socials struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Bluesky   string `json:"bluesky,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// Rate is a named price point a maker advertises (e.g. "Hourly", "Day rate").
type Rate struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Image is a stored listing photo. Key identifies the blob in whichever
// storage backend holds it; URL is what clients load; BlurHash is the
// placeholder string computed at upload time.
type Image struct {
	Key      string `json:"key,omitempty"`
	URL      string `json:"url"`
	BlurHash string `json:"blur_hash,omitempty"`
}

// Artist is a maker listing in the directory.
//
// BusinessName is unique across the directory, compared case-insensitively.
// The store enforces this with a unique index; callers should expect a
// conflict error on collision, never a silent overwrite.
type Artist struct {
	Record
	OwnerID        string     `json:"owner_id"`
	BusinessName   string     `json:"business_name"`
	Maker          MakerInfo  `json:"maker"`
	Type           ArtistType `json:"type"`
	Description    string     `json:"description"` // markdown
	Location       Location   `json:"location"`
	Employees      int        `json:"employees,omitempty"`
	PhysicalStores int        `json:"physical_stores,omitempty"`
	Socials        Socials    `json:"socials"`
	Rates          []Rate     `json:"rates,omitempty"`
	Specialties    []string   `json:"specialties,omitempty"`
	Images         []Image    `json:"images"`
	Featured       bool       `json:"featured"`
}

// IsOwnedBy returns true if the given user owns this listing.
func (a *Artist) IsOwnedBy(userID string) bool {
	return a.OwnerID != "" && a.OwnerID == userID
}

// ArtistSummary is the card-sized projection used by browse surfaces
// (homepage, search results, saved lists).
type ArtistSummary struct {
	ID           string     `json:"id"`
	BusinessName string     `json:"business_name"`
	MakerName    string     `json:"maker_name"`
	Type         ArtistType `json:"type"`
	Images       []Image    `json:"images"`
	Featured     bool       `json:"featured"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Summary projects the listing down to its card fields. Timestamps ride
// along so clients can show and verify recency ordering.
func (a *Artist) Summary() ArtistSummary {
	return ArtistSummary{
		ID:           a.ID,
		BusinessName: a.BusinessName,
		MakerName:    a.Maker.Name,
		Type:         a.Type,
		Images:       a.Images,
		Featured:     a.Featured,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// SummarizeArtists maps a slice of listings to their summaries,
// preserving order.
func SummarizeArtists(artists []*Artist) []ArtistSummary {
	summaries := make([]ArtistSummary, 0, len(artists))
	for _, a := range artists {
		summaries = append(summaries, a.Summary())
	}
	return summaries
}
