package vehicle

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
)

// MemoryRepository keeps the catalog in process memory. Data is lost on
// restart.
type MemoryRepository struct {
	mu          sync.RWMutex
	initialized bool
	vehicles    map[string]domain.Vehicle
	seedPath    string
	now         func() time.Time
	logger      logger.Logger
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemory(seedPath string, logger logger.Logger) *MemoryRepository {
	return &MemoryRepository{
		vehicles: make(map[string]domain.Vehicle),
		seedPath: seedPath,
		now:      time.Now,
		logger:   logger.WithComponent("MemoryInventory"),
	}
}

func (r *MemoryRepository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}

	if len(r.vehicles) == 0 {
		seed, err := LoadSeed(r.seedPath, r.now())
		if err != nil {
			return err
		}
		for _, v := range seed {
			r.vehicles[v.ID] = v
		}
		r.logger.Info("Seeded inventory", "count", len(seed))
	}

	r.initialized = true
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return nil, ErrNotInitialized
	}

	out := make([]domain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		if filter.Matches(v) {
			out = append(out, clone(v))
		}
	}
	domain.SortVehicles(out, filter.Sort)
	return paginate(out, filter.Offset, filter.Limit), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return nil, ErrNotInitialized
	}

	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	v = clone(v)
	return &v, nil
}

func (r *MemoryRepository) Create(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	if err := Validate(v); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, ErrNotInitialized
	}

	v = clone(v)
	v.ID = uuid.NewString()
	v.CreatedAt = r.now().UTC()
	v.UpdatedAt = v.CreatedAt
	r.vehicles[v.ID] = v

	out := clone(v)
	return &out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	if err := Validate(v); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, ErrNotInitialized
	}

	current, ok := r.vehicles[v.ID]
	if !ok {
		return nil, ErrNotFound
	}

	v = clone(v)
	v.CreatedAt = current.CreatedAt
	v.UpdatedAt = r.now().UTC()
	r.vehicles[v.ID] = v

	out := clone(v)
	return &out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if _, ok := r.vehicles[id]; !ok {
		return ErrNotFound
	}
	delete(r.vehicles, id)
	return nil
}

func (r *MemoryRepository) ReorderImages(ctx context.Context, id string, images []string) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, ErrNotInitialized
	}

	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := checkPermutation(v.Images, images); err != nil {
		return nil, err
	}

	v.Images = append([]string{}, images...)
	v.UpdatedAt = r.now().UTC()
	r.vehicles[id] = v

	out := clone(v)
	return &out, nil
}

func clone(v domain.Vehicle) domain.Vehicle {
	images := make([]string, len(v.Images))
	copy(images, v.Images)
	v.Images = images
	return v
}
