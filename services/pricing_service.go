package services

import (
	"math"

	"github.com/imprimerie/print-shop-app/models"
)

// PricingEngine computes line-item prices from a catalog entry, a quantity and
// the client's selected options. It is pure: no persistence, no clock.
type PricingEngine struct{}

func NewPricingEngine() *PricingEngine {
	return &PricingEngine{}
}

// Calculate returns the frozen total for one line.
//
// total = basePrice*quantity + sum(applicable modifiers)*quantity, rounded to
// the cent once after all modifiers are summed. Rounding per modifier would
// accumulate float drift across options, so only the final value is rounded.
//
// An option contributes its modifier when the client supplied a value for its
// id: checkboxes only when the value is truthy, select/number whenever a
// non-empty value is present. Unsupplied options contribute nothing. Presence
// of required options is the order aggregate's concern, not pricing's.
func (p *PricingEngine) Calculate(service *models.Service, quantity int, selected map[string]interface{}) (float64, error) {
	if quantity < service.MinQuantity || quantity > service.MaxQuantity {
		return 0, ErrInvalidQuantity
	}

	total := service.BasePrice * float64(quantity)

	for _, opt := range service.Options {
		value, supplied := selected[opt.OptionID]
		if !supplied || opt.PriceModifier == 0 {
			continue
		}

		switch opt.Kind {
		case models.OptionKindCheckbox:
			if isTruthy(value) {
				total += opt.PriceModifier * float64(quantity)
			}
		case models.OptionKindSelect, models.OptionKindNumber:
			if !isEmpty(value) {
				total += opt.PriceModifier * float64(quantity)
			}
		}
	}

	return Round2(total), nil
}

// Round2 rounds to 2 decimal places, half up on the cent.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func isTruthy(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != "" && val != "false" && val != "0"
	case float64:
		return val != 0
	case int:
		return val != 0
	case nil:
		return false
	default:
		return true
	}
}

func isEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case int:
		return val == 0
	default:
		return false
	}
}
