package promotion

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type Repository interface {
	GetService(ctx context.Context, salonID, serviceID uint) (*models.Service, error)
	GetPromotionByCode(ctx context.Context, salonID uint, code string) (*models.Promotion, error)
}

type Quote struct {
	Code          string  `json:"code"`
	ServiceID     uint    `json:"service_id"`
	OriginalPrice float64 `json:"original_price"`
	Discount      float64 `json:"discount"`
	FinalPrice    float64 `json:"final_price"`
	DepositAmount float64 `json:"deposit_amount"`
}

type Validate struct {
	repo Repository
	Now  func() time.Time
}

func NewValidate(repo Repository) *Validate {
	return &Validate{repo: repo, Now: time.Now}
}

// Execute prices serviceID with code applied, without consuming a use.
func (uc *Validate) Execute(
	ctx context.Context,
	salonID uint,
	code string,
	serviceID uint,
) (*Quote, error) {

	service, err := uc.repo.GetService(ctx, salonID, serviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !service.Active) {
		return nil, httperr.ErrBusiness(domain.CodeServiceNotFound)
	}
	if err != nil {
		return nil, err
	}

	code = domain.NormalizeCode(code)
	if code == "" {
		return nil, httperr.ErrBusiness(domain.CodePromotionNotFound)
	}

	promo, err := uc.repo.GetPromotionByCode(ctx, salonID, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness(domain.CodePromotionNotFound)
	}
	if err != nil {
		return nil, err
	}

	discount, err := domain.PromotionDiscount(promo, service.ID, service.Price, uc.Now())
	if err != nil {
		return nil, err
	}

	q := &Quote{
		Code:          promo.Code,
		ServiceID:     service.ID,
		OriginalPrice: service.Price,
		Discount:      discount,
		FinalPrice:    service.Price - discount,
	}
	if service.DepositRequired {
		q.DepositAmount = domain.DepositAmount(q.FinalPrice, service.DepositPercentage)
	}
	return q, nil
}
