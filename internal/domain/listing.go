package domain

import "time"

// ExtractedListing is a vehicle listing derived from exactly one RawPost.
type ExtractedListing struct {
	ID          string
	Source      string
	Images      []string
	Description string
	Price       string
	CreatedTime time.Time
	Permalink   string
}

// Listing is the record handed to the display layer.
type Listing struct {
	ID          string    `json:"id"`
	Images      []string  `json:"images"`
	Info        string    `json:"info"`
	Price       string    `json:"price"`
	CreatedTime time.Time `json:"created_time"`
	Link        string    `json:"link"`
}

func (l ExtractedListing) ToDisplay() Listing {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return Listing{
		ID:          l.ID,
		Images:      images,
		Info:        l.Description,
		Price:       l.Price,
		CreatedTime: l.CreatedTime,
		Link:        l.Permalink,
	}
}
