package billing

import (
	"context"
	"math"
	"strconv"

	"github.com/cockroachdb/apd"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/pkg/errors"
)

var (
	// ErrNoPricingRule indicates that no active pricing rule applies to a tenant and metric.
	ErrNoPricingRule = errors.New("no active pricing rule found for the metric")

	// ErrInvalidTierConfig indicates that a tiered rule's ranges are non-contiguous, overlapping or unsorted.
	ErrInvalidTierConfig = errors.New("invalid tier configuration")
)

// Monetary computation uses fixed-point decimals so that sums over millions of tiny per-unit charges don't drift the
// way binary floating point would. Invoice-facing costs are rounded to two decimal places half-up; breakdown
// subtotals keep four.
var decimalContext = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(30)
	c.Rounding = apd.RoundHalfUp
	return c
}()

const (
	costScale     = 2
	subtotalScale = 4
)

// decimalFromFloat converts a binary float to its exact decimal representation.
func decimalFromFloat(value float64) (*apd.Decimal, error) {
	d, _, err := apd.New(0, 0).SetString(strconv.FormatFloat(value, 'f', -1, 64))
	if err != nil {
		return nil, err
	}
	return d, nil
}

// roundedFloat rounds a decimal half-up to the given number of fractional digits and converts it back to a float.
func roundedFloat(d *apd.Decimal, scale int32) (float64, error) {
	rounded := new(apd.Decimal)
	if _, err := decimalContext.Quantize(rounded, d, -scale); err != nil {
		return 0, err
	}
	return rounded.Float64()
}

// TierCharge describes the contribution of one tier to a tiered cost, enabling transparent invoice line items.
type TierCharge struct {
	// The beginning of the tier's quantity range, inclusive
	TierFrom float64 `json:"from"`

	// The end of the tier's quantity range, exclusive; absent for an unbounded tier
	TierTo *float64 `json:"to,omitempty"`

	// The portion of the total quantity falling in this tier
	Quantity float64 `json:"quantity"`

	// The tier's price per unit
	Rate float64 `json:"rate"`

	// The cost contributed by this tier
	Subtotal float64 `json:"subtotal"`
}

// Evaluation is the result of applying a pricing rule to an aggregated quantity.
type Evaluation struct {
	// The computed cost, rounded to two decimal places
	Cost float64 `json:"cost"`

	// The ISO 4217 currency code of the cost
	Currency string `json:"currency"`

	// The per-tier contributions for tiered rules
	Breakdown []TierCharge `json:"breakdown,omitempty"`
}

// RuleResolver looks up the active pricing rule for a tenant and metric, preferring a tenant-specific rule over the
// global default. A nil rule with a nil error means that no applicable rule exists.
type RuleResolver interface {
	ResolveActiveRule(ctx context.Context, tenantID, metricName string) (*model.PricingRule, error)
}

// Pricer converts aggregated usage quantities into monetary cost.
type Pricer struct {
	Rules RuleResolver
}

// NewPricer returns a new pricer backed by the given rule resolver.
func NewPricer(rules RuleResolver) *Pricer {
	return &Pricer{Rules: rules}
}

// Evaluate resolves the applicable pricing rule for the tenant and metric and applies it to the given quantity.
func (p *Pricer) Evaluate(ctx context.Context, tenantID, metricName string, totalQuantity float64) (*Evaluation, error) {
	rule, err := p.Rules.ResolveActiveRule(ctx, tenantID, metricName)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrNoPricingRule
	}
	return EvaluateRule(rule, totalQuantity)
}

// EvaluateRule applies a pricing rule to an aggregated quantity. The function is pure: it performs no I/O and
// returns no result at all when the rule is malformed, so a caller can never mistake a failure for a zero cost.
func EvaluateRule(rule *model.PricingRule, totalQuantity float64) (*Evaluation, error) {
	switch rule.PricingModel {
	case model.PricingModelFlat:
		return evaluateFlat(rule)
	case model.PricingModelPerUnit:
		return evaluatePerUnit(rule, totalQuantity)
	case model.PricingModelTiered:
		return evaluateTiered(rule, totalQuantity)
	case model.PricingModelPackage:
		return evaluatePackage(rule, totalQuantity)
	default:
		return nil, errors.Errorf("unrecognized pricing model: %s", rule.PricingModel)
	}
}

// evaluateFlat computes the cost for a flat rule: the unit price regardless of quantity.
func evaluateFlat(rule *model.PricingRule) (*Evaluation, error) {
	price, err := decimalFromFloat(rule.UnitPrice)
	if err != nil {
		return nil, err
	}
	cost, err := roundedFloat(price, costScale)
	if err != nil {
		return nil, err
	}
	return &Evaluation{Cost: cost, Currency: rule.Currency}, nil
}

// evaluatePerUnit computes the cost for a per_unit rule: the unit price multiplied by the quantity.
func evaluatePerUnit(rule *model.PricingRule, totalQuantity float64) (*Evaluation, error) {
	price, err := decimalFromFloat(rule.UnitPrice)
	if err != nil {
		return nil, err
	}
	quantity, err := decimalFromFloat(totalQuantity)
	if err != nil {
		return nil, err
	}

	total := new(apd.Decimal)
	if _, err = decimalContext.Mul(total, price, quantity); err != nil {
		return nil, err
	}

	cost, err := roundedFloat(total, costScale)
	if err != nil {
		return nil, err
	}
	return &Evaluation{Cost: cost, Currency: rule.Currency}, nil
}

// evaluateTiered splits the quantity across the rule's ordered tier ranges, charging each portion at its tier's
// rate. The tier configuration is validated defensively even though rules are validated at creation time.
func evaluateTiered(rule *model.PricingRule, totalQuantity float64) (*Evaluation, error) {
	if err := rule.ValidateTiers(); err != nil {
		return nil, errors.Wrap(ErrInvalidTierConfig, err.Error())
	}

	total := new(apd.Decimal)
	breakdown := make([]TierCharge, 0, len(rule.Tiers))

	for _, tier := range rule.Tiers {
		if totalQuantity <= tier.TierFrom {
			break
		}

		// Determine the portion of the quantity falling in this tier.
		portion := totalQuantity - tier.TierFrom
		if tier.TierTo != nil && totalQuantity > *tier.TierTo {
			portion = *tier.TierTo - tier.TierFrom
		}

		portionDec, err := decimalFromFloat(portion)
		if err != nil {
			return nil, err
		}
		rate, err := decimalFromFloat(tier.Rate)
		if err != nil {
			return nil, err
		}

		subtotal := new(apd.Decimal)
		if _, err = decimalContext.Mul(subtotal, portionDec, rate); err != nil {
			return nil, err
		}
		if _, err = decimalContext.Add(total, total, subtotal); err != nil {
			return nil, err
		}

		subtotalValue, err := roundedFloat(subtotal, subtotalScale)
		if err != nil {
			return nil, err
		}
		breakdown = append(breakdown, TierCharge{
			TierFrom: tier.TierFrom,
			TierTo:   tier.TierTo,
			Quantity: portion,
			Rate:     tier.Rate,
			Subtotal: subtotalValue,
		})
	}

	cost, err := roundedFloat(total, costScale)
	if err != nil {
		return nil, err
	}
	return &Evaluation{Cost: cost, Currency: rule.Currency, Breakdown: breakdown}, nil
}

// evaluatePackage rounds the quantity up to the nearest multiple of the package size and charges the unit price per
// package. A missing package size defaults to one, degenerating to per-unit pricing.
func evaluatePackage(rule *model.PricingRule, totalQuantity float64) (*Evaluation, error) {
	packageSize := rule.PackageSize
	if packageSize <= 0 {
		packageSize = 1
	}

	packages, err := decimalFromFloat(math.Ceil(totalQuantity / packageSize))
	if err != nil {
		return nil, err
	}
	price, err := decimalFromFloat(rule.UnitPrice)
	if err != nil {
		return nil, err
	}

	total := new(apd.Decimal)
	if _, err = decimalContext.Mul(total, packages, price); err != nil {
		return nil, err
	}

	cost, err := roundedFloat(total, costScale)
	if err != nil {
		return nil, err
	}
	return &Evaluation{Cost: cost, Currency: rule.Currency}, nil
}
