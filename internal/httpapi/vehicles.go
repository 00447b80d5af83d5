package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/pkg/errors"
	"github.com/orgball2608/vehicle-listing-feed/pkg/formatter"
	"github.com/samber/lo"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

var sortOrders = []string{
	domain.SortNewest, domain.SortPriceAsc, domain.SortPriceDesc, domain.SortYearDesc, domain.SortMileage,
}

type vehicleRequest struct {
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Price        int      `json:"price"`
	Mileage      int      `json:"mileage"`
	Fuel         string   `json:"fuel"`
	Transmission string   `json:"transmission"`
	BodyType     string   `json:"body_type"`
	Color        string   `json:"color"`
	Description  string   `json:"description"`
	Images       []string `json:"images"`
	Featured     bool     `json:"featured"`
}

func (req vehicleRequest) toVehicle(id string) domain.Vehicle {
	return domain.Vehicle{
		ID:           id,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		Fuel:         req.Fuel,
		Transmission: req.Transmission,
		BodyType:     req.BodyType,
		Color:        req.Color,
		Description:  req.Description,
		Images:       req.Images,
		Featured:     req.Featured,
	}
}

type imagesRequest struct {
	Images []string `json:"images"`
}

type vehicleResponse struct {
	domain.Vehicle
	PriceLabel string `json:"price_label"`
}

func toResponse(v domain.Vehicle) vehicleResponse {
	return vehicleResponse{Vehicle: v, PriceLabel: formatter.FormatEuro(v.Price)}
}

func (s *Server) listVehicles(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	vehicles, err := s.vehicles.List(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(vehicles, func(v domain.Vehicle, _ int) vehicleResponse {
		return toResponse(v)
	}))
}

func (s *Server) getVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := s.vehicles.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*v))
}

func (s *Server) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	v, err := s.vehicles.Create(r.Context(), req.toVehicle(""))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.logger.Info("Vehicle created", "id", v.ID)
	writeJSON(w, http.StatusCreated, toResponse(*v))
}

func (s *Server) updateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	v, err := s.vehicles.Update(r.Context(), req.toVehicle(r.PathValue("id")))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*v))
}

func (s *Server) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.vehicles.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.logger.Info("Vehicle deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reorderVehicleImages(w http.ResponseWriter, r *http.Request) {
	var req imagesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	v, err := s.vehicles.ReorderImages(r.Context(), r.PathValue("id"), req.Images)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*v))
}

func parseFilter(q url.Values) (domain.VehicleFilter, error) {
	f := domain.VehicleFilter{
		Make:         q.Get("make"),
		Model:        q.Get("model"),
		Query:        q.Get("q"),
		Fuel:         q.Get("fuel"),
		Transmission: q.Get("transmission"),
		BodyType:     q.Get("body_type"),
		Sort:         q.Get("sort"),
		Limit:        defaultPageSize,
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"min_year", &f.MinYear},
		{"max_year", &f.MaxYear},
		{"min_price", &f.MinPrice},
		{"max_price", &f.MaxPrice},
		{"max_mileage", &f.MaxMileage},
		{"limit", &f.Limit},
		{"offset", &f.Offset},
	}
	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, errors.Invalid(fmt.Sprintf("%s must be a non-negative integer", p.name))
		}
		*p.dst = n
	}

	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return f, errors.Invalid("featured must be a boolean")
		}
		f.FeaturedOnly = featured
	}

	if f.Sort != "" && !lo.Contains(sortOrders, f.Sort) {
		return f, errors.Invalid(fmt.Sprintf("sort must be one of %v", sortOrders))
	}
	if f.Limit == 0 || f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	return f, nil
}
