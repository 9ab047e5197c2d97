package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/imaging"
)

// Entities that carry an image.
const (
	EntityProduct  = "products"
	EntityService  = "services"
	EntityEmployee = "employees"
)

const (
	CodeInvalidImage    = "invalid_image"
	CodeStorageDisabled = "storage_disabled"
	CodeEntityNotFound  = "entity_not_found"
	CodeInvalidEntity   = "invalid_entity"
)

type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Repository points an entity row to its new image.
type Repository interface {
	SetImageURL(ctx context.Context, entity string, salonID, id uint, url string) error
}

type UploadImage struct {
	store Store
	repo  Repository
	audit *audit.Dispatcher
}

// NewUploadImage accepts a nil store when storage is not configured.
func NewUploadImage(store Store, repo Repository, audit *audit.Dispatcher) *UploadImage {
	return &UploadImage{store: store, repo: repo, audit: audit}
}

func (uc *UploadImage) Execute(
	ctx context.Context,
	salonID uint,
	actorID *uint,
	entity string,
	id uint,
	file io.Reader,
) (string, error) {

	switch entity {
	case EntityProduct, EntityService, EntityEmployee:
	default:
		return "", httperr.ErrBusiness(CodeInvalidEntity)
	}

	if uc.store == nil {
		return "", httperr.ErrBusiness(CodeStorageDisabled)
	}

	body, err := imaging.ToWebP(file)
	if errors.Is(err, imaging.ErrUnsupported) {
		return "", httperr.ErrBusiness(CodeInvalidImage)
	}
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("salons/%d/%s/%d/%s.webp", salonID, entity, id, uuid.NewString())

	url, err := uc.store.Put(ctx, key, body, "image/webp")
	if err != nil {
		return "", err
	}

	err = uc.repo.SetImageURL(ctx, entity, salonID, id, url)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", httperr.ErrBusiness(CodeEntityNotFound)
	}
	if err != nil {
		return "", err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   actorID,
		Action:   "image_uploaded",
		Entity:   entity,
		EntityID: &id,
		Metadata: map[string]any{"url": url},
	})

	return url, nil
}
