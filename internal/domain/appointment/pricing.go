package appointment

import (
	"math"
	"strings"
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// DepositAmount is pct percent of price, rounded to cents.
func DepositAmount(price, pct float64) float64 {
	if pct <= 0 || price <= 0 {
		return 0
	}
	if pct > 100 {
		pct = 100
	}
	return roundCents(price * pct / 100)
}

// PromotionDiscount validates promo for serviceID at now and returns the
// discount over price.
func PromotionDiscount(promo *models.Promotion, serviceID uint, price float64, now time.Time) (float64, error) {
	if !promo.Active {
		return 0, httperr.ErrBusiness(CodePromotionInactive)
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return 0, httperr.ErrBusiness(CodePromotionInactive)
	}
	if promo.ValidTo != nil && now.After(*promo.ValidTo) {
		return 0, httperr.ErrBusiness(CodePromotionExpired)
	}
	if promo.MaxUses > 0 && promo.UsedCount >= promo.MaxUses {
		return 0, httperr.ErrBusiness(CodePromotionExhausted)
	}
	if promo.ServiceID != nil && *promo.ServiceID != serviceID {
		return 0, httperr.ErrBusiness(CodePromotionNotAllowed)
	}

	var discount float64
	switch strings.ToLower(promo.DiscountType) {
	case DiscountPercent:
		pct := math.Min(promo.DiscountValue, 100)
		discount = roundCents(price * pct / 100)
	case DiscountFixed:
		discount = math.Min(promo.DiscountValue, price)
	default:
		return 0, httperr.ErrBusiness(CodePromotionNotAllowed)
	}

	if discount < 0 {
		discount = 0
	}
	return discount, nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
