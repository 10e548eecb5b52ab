package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/course-enrollment-api/internal/models"
	"github.com/noah-isme/course-enrollment-api/pkg/config"
	"github.com/noah-isme/course-enrollment-api/pkg/money"
)

// PricingPolicy holds the parsed pricing constants.
type PricingPolicy struct {
	Floor                   decimal.Decimal
	FlagshipMarker          string
	PixFlagshipDiscount     decimal.Decimal
	CardSurchargePercent    decimal.Decimal
	CardMaxInstallments     int
	FlagshipMaxInstallments int
	PixDueDays              int
	CardDueDays             int
}

// DefaultPricingPolicy mirrors the configuration defaults.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		Floor:                   decimal.RequireFromString("0.01"),
		FlagshipMarker:          "Formação Completa",
		PixFlagshipDiscount:     decimal.RequireFromString("150.00"),
		CardSurchargePercent:    decimal.NewFromInt(8),
		CardMaxInstallments:     12,
		FlagshipMaxInstallments: 10,
		PixDueDays:              2,
		CardDueDays:             7,
	}
}

// PricingPolicyFromConfig parses the pricing section of the configuration.
func PricingPolicyFromConfig(cfg config.PricingConfig) (PricingPolicy, error) {
	policy := DefaultPricingPolicy()

	var err error
	if cfg.PriceFloor != "" {
		if policy.Floor, err = money.ParseBRL(cfg.PriceFloor); err != nil {
			return policy, fmt.Errorf("pricing floor: %w", err)
		}
	}
	if cfg.PixFlagshipDiscount != "" {
		if policy.PixFlagshipDiscount, err = money.ParseBRL(cfg.PixFlagshipDiscount); err != nil {
			return policy, fmt.Errorf("pix flagship discount: %w", err)
		}
	}
	if cfg.CardSurchargePercent != "" {
		if policy.CardSurchargePercent, err = decimal.NewFromString(cfg.CardSurchargePercent); err != nil {
			return policy, fmt.Errorf("card surcharge: %w", err)
		}
	}
	if cfg.FlagshipMarker != "" {
		policy.FlagshipMarker = cfg.FlagshipMarker
	}
	if cfg.CardMaxInstallments > 0 {
		policy.CardMaxInstallments = cfg.CardMaxInstallments
	}
	if cfg.FlagshipMaxInstallments > 0 {
		policy.FlagshipMaxInstallments = cfg.FlagshipMaxInstallments
	}
	if cfg.PixDueDays > 0 {
		policy.PixDueDays = cfg.PixDueDays
	}
	if cfg.CardDueDays > 0 {
		policy.CardDueDays = cfg.CardDueDays
	}
	return policy, nil
}

// IsFlagship reports whether the course title carries the flagship marker.
func (p PricingPolicy) IsFlagship(courseTitle string) bool {
	if p.FlagshipMarker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(courseTitle), strings.ToLower(p.FlagshipMarker))
}

// PricingEngine computes final prices from a base price and an optional discount rule.
type PricingEngine struct {
	policy PricingPolicy
}

// NewPricingEngine constructs a pricing engine.
func NewPricingEngine(policy PricingPolicy) *PricingEngine {
	return &PricingEngine{policy: policy}
}

// Policy exposes the active pricing policy.
func (e *PricingEngine) Policy() PricingPolicy {
	return e.policy
}

// Price applies rule to base. Without a rule the base is returned unchanged;
// with one the result never drops below the price floor.
func (e *PricingEngine) Price(base decimal.Decimal, rule *models.DiscountRule) decimal.Decimal {
	base = money.Round(base)
	if rule == nil {
		return base
	}

	var final decimal.Decimal
	switch rule.Type {
	case models.DiscountPercentage:
		final = money.Round(base.Sub(money.Percent(base, rule.Amount)))
	case models.DiscountFixed:
		final = money.Round(base.Sub(rule.Amount))
	default:
		return base
	}
	return e.floor(final)
}

// Discount is the amount removed from base to reach final.
func (e *PricingEngine) Discount(base, final decimal.Decimal) decimal.Decimal {
	d := money.Round(base.Sub(final))
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func (e *PricingEngine) floor(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(e.policy.Floor) {
		return e.policy.Floor
	}
	return v
}
