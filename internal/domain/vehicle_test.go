package domain

import (
	"testing"
	"time"
)

func TestVehicleFilterMatches(t *testing.T) {
	v := Vehicle{
		ID: "a", Make: "BMW", Model: "320d Touring", Year: 2018, Price: 22500,
		Mileage: 98000, Fuel: "diesel", Transmission: "automatic", BodyType: "estate",
		Color: "black", Description: "Full service history", Featured: true,
	}

	tests := []struct {
		name string
		f    VehicleFilter
		want bool
	}{
		{"empty filter", VehicleFilter{}, true},
		{"make case-insensitive", VehicleFilter{Make: "bmw"}, true},
		{"other make", VehicleFilter{Make: "Audi"}, false},
		{"model substring", VehicleFilter{Model: "touring"}, true},
		{"query hits description", VehicleFilter{Query: "service"}, true},
		{"query misses", VehicleFilter{Query: "convertible"}, false},
		{"year in range", VehicleFilter{MinYear: 2015, MaxYear: 2019}, true},
		{"year too old", VehicleFilter{MinYear: 2019}, false},
		{"price in range", VehicleFilter{MinPrice: 20000, MaxPrice: 25000}, true},
		{"price above max", VehicleFilter{MaxPrice: 20000}, false},
		{"mileage above max", VehicleFilter{MaxMileage: 50000}, false},
		{"fuel", VehicleFilter{Fuel: "Diesel"}, true},
		{"transmission mismatch", VehicleFilter{Transmission: "manual"}, false},
		{"body type", VehicleFilter{BodyType: "estate"}, true},
		{"featured only", VehicleFilter{FeaturedOnly: true}, true},
		{"all constraints AND", VehicleFilter{Make: "BMW", Fuel: "petrol"}, false},
	}

	for _, tt := range tests {
		if got := tt.f.Matches(v); got != tt.want {
			t.Errorf("%s: Matches() = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestSortVehicles(t *testing.T) {
	now := time.Now()
	vs := []Vehicle{
		{ID: "a", Price: 30000, Year: 2016, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "b", Price: 10000, Year: 2020, CreatedAt: now},
		{ID: "c", Price: 10000, Year: 2018, CreatedAt: now.Add(-time.Hour)},
	}

	SortVehicles(vs, SortPriceAsc)
	if vs[0].ID != "b" || vs[1].ID != "c" || vs[2].ID != "a" {
		t.Errorf("price_asc order = %s%s%s", vs[0].ID, vs[1].ID, vs[2].ID)
	}

	SortVehicles(vs, SortYearDesc)
	if vs[0].ID != "b" || vs[2].ID != "a" {
		t.Errorf("year_desc order = %s%s%s", vs[0].ID, vs[1].ID, vs[2].ID)
	}

	SortVehicles(vs, "")
	if vs[0].ID != "b" || vs[1].ID != "c" {
		t.Errorf("newest order = %s%s%s", vs[0].ID, vs[1].ID, vs[2].ID)
	}
}
