package domain

import (
	"sort"
	"strings"
	"time"
)

type Vehicle struct {
	ID           string    `json:"id" yaml:"id"`
	Make         string    `json:"make" yaml:"make"`
	Model        string    `json:"model" yaml:"model"`
	Year         int       `json:"year" yaml:"year"`
	Price        int       `json:"price" yaml:"price"`
	Mileage      int       `json:"mileage" yaml:"mileage"`
	Fuel         string    `json:"fuel" yaml:"fuel"`
	Transmission string    `json:"transmission" yaml:"transmission"`
	BodyType     string    `json:"body_type" yaml:"body_type"`
	Color        string    `json:"color" yaml:"color"`
	Description  string    `json:"description" yaml:"description"`
	Images       []string  `json:"images" yaml:"images"`
	Featured     bool      `json:"featured" yaml:"featured"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// Sort orders accepted by VehicleFilter.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortYearDesc  = "year_desc"
	SortMileage   = "mileage_asc"
)

// VehicleFilter narrows the catalog. Zero values mean "no constraint"; all
// set constraints must hold.
type VehicleFilter struct {
	Make         string
	Model        string
	Query        string
	MinYear      int
	MaxYear      int
	MinPrice     int
	MaxPrice     int
	MaxMileage   int
	Fuel         string
	Transmission string
	BodyType     string
	FeaturedOnly bool
	Sort         string
	Limit        int
	Offset       int
}

func (f VehicleFilter) Matches(v Vehicle) bool {
	if f.Make != "" && !strings.EqualFold(v.Make, f.Make) {
		return false
	}
	if f.Model != "" && !containsFold(v.Model, f.Model) {
		return false
	}
	if f.Query != "" {
		text := strings.Join([]string{v.Make, v.Model, v.Description, v.Color}, " ")
		if !containsFold(text, f.Query) {
			return false
		}
	}
	if f.MinYear > 0 && v.Year < f.MinYear {
		return false
	}
	if f.MaxYear > 0 && v.Year > f.MaxYear {
		return false
	}
	if f.MinPrice > 0 && v.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && v.Price > f.MaxPrice {
		return false
	}
	if f.MaxMileage > 0 && v.Mileage > f.MaxMileage {
		return false
	}
	if f.Fuel != "" && !strings.EqualFold(v.Fuel, f.Fuel) {
		return false
	}
	if f.Transmission != "" && !strings.EqualFold(v.Transmission, f.Transmission) {
		return false
	}
	if f.BodyType != "" && !strings.EqualFold(v.BodyType, f.BodyType) {
		return false
	}
	if f.FeaturedOnly && !v.Featured {
		return false
	}
	return true
}

// SortVehicles orders vs in place by the filter's sort key, id breaking ties.
func SortVehicles(vs []Vehicle, order string) {
	less := func(a, b Vehicle) bool {
		switch order {
		case SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		case SortYearDesc:
			if a.Year != b.Year {
				return a.Year > b.Year
			}
		case SortMileage:
			if a.Mileage != b.Mileage {
				return a.Mileage < b.Mileage
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	}
	sort.SliceStable(vs, func(i, j int) bool { return less(vs[i], vs[j]) })
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
