package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultNoInterestSurcharge is the factor applied to a table commission rate when
// the seller offers installments without interest.
var DefaultNoInterestSurcharge = decimal.RequireFromString("1.01")

// Match is the outcome of a rate-table lookup. An unmatched lookup carries a zero
// value so callers can proceed, and Matched lets them flag it.
type Match struct {
	Value   decimal.Decimal
	Matched bool
}

// Matched wraps a rate found in a table.
func Matched(v decimal.Decimal) Match {
	return Match{Value: v, Matched: true}
}

// Unmatched is the lookup result when no band applies.
var Unmatched = Match{Value: decimal.Zero}

// RateResolver resolves tiered rates. Only storage failures are errors; a missing
// band is reported as Unmatched.
type RateResolver interface {
	// ResolveFreightRate returns the freight price for the band containing weight.
	ResolveFreightRate(ctx context.Context, regionID, serviceType string, weight decimal.Decimal) (Match, error)
	// ResolveCommissionRate returns the commission as a 0..1 fraction, table
	// multiplier included.
	ResolveCommissionRate(ctx context.Context, categoryID, channelType, serviceType string, salePrice decimal.Decimal) (Match, error)
}

// Subject is everything the calculator needs from the product, channel and user
// settings records.
type Subject struct {
	BaseCost      decimal.Decimal
	PackagingCost decimal.Decimal
	Weight        decimal.Decimal // billable weight, kg
	CategoryID    string
	ChannelName   string
	ChannelType   string
	ServiceType   string
	RegionID      string // empty when the user has no region configured
	TaxPercent    decimal.Decimal
}

// Options tune the calculator.
type Options struct {
	NoInterestSurcharge decimal.Decimal
}

// Calculator runs the ordered cost pipeline for one product, channel and price.
type Calculator struct {
	rates RateResolver
	opts  Options
}

func NewCalculator(rates RateResolver, opts Options) *Calculator {
	if opts.NoInterestSurcharge.IsZero() {
		opts.NoInterestSurcharge = DefaultNoInterestSurcharge
	}
	return &Calculator{rates: rates, opts: opts}
}

// Calculate accumulates every cost component in a fixed order and derives profit,
// margin and ROI. It performs reads through the resolver only.
func (c *Calculator) Calculate(ctx context.Context, s Subject, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	price := in.SalePrice
	ov := in.Overrides
	var (
		t        trail
		b        Breakdown
		rates    AppliedRates
		warnings []string
	)

	// 1-2: always present
	b.Base = s.BaseCost
	t.add("Custo base do produto", money(s.BaseCost), s.BaseCost, nil)
	b.Packaging = s.PackagingCost
	t.add("Custo de embalagem", money(s.PackagingCost), s.PackagingCost, nil)

	// 3: inbound freight
	inbound := decimal.Zero
	switch {
	case ov.InboundFreight != nil:
		inbound = *ov.InboundFreight
		t.addNonZero("Frete de entrada (informado)", money(inbound), inbound, nil)
	case s.RegionID != "" && !in.Settings.CustomFreightCalculation:
		m, err := c.rates.ResolveFreightRate(ctx, s.RegionID, s.ServiceType, s.Weight)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve freight rate: %w", err)
		}
		if !m.Matched {
			warnings = append(warnings, fmt.Sprintf(
				"Nenhuma faixa de frete para região %s, serviço %s, peso %s kg", s.RegionID, s.ServiceType, s.Weight.String()))
		}
		inbound = m.Value
		t.addNonZero("Frete de entrada (tabela)",
			fmt.Sprintf("tabela %s/%s, peso %s kg = %s", s.RegionID, s.ServiceType, s.Weight.String(), money(inbound)),
			inbound, nil)
	}
	rates.FreightRate = inbound

	// 4: outbound freight, override only
	outbound := decimal.Zero
	if ov.OutboundFreight != nil {
		outbound = *ov.OutboundFreight
		t.addNonZero("Frete de saída", money(outbound), outbound, nil)
	}
	b.Freight = inbound.Add(outbound)

	// 5-6: only positive overrides count
	if ov.PrepCenterFee != nil && ov.PrepCenterFee.IsPositive() {
		b.PrepCenter = *ov.PrepCenterFee
		t.add("Taxa do centro de preparação", money(b.PrepCenter), b.PrepCenter, nil)
	}
	if ov.FixedCost != nil && ov.FixedCost.IsPositive() {
		b.Fixed = *ov.FixedCost
		t.add("Custo fixo", money(b.Fixed), b.Fixed, nil)
	}

	// 7: commission
	var commissionPct decimal.Decimal
	if ov.CommissionPercent != nil {
		commissionPct = *ov.CommissionPercent
	} else {
		m, err := c.rates.ResolveCommissionRate(ctx, s.CategoryID, s.ChannelType, s.ServiceType, price)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve commission rate: %w", err)
		}
		if !m.Matched {
			warnings = append(warnings, fmt.Sprintf(
				"Nenhuma faixa de comissão para categoria %s, canal %s, serviço %s, preço %s",
				s.CategoryID, s.ChannelType, s.ServiceType, money(price)))
		}
		rate := m.Value
		if in.Settings.ApplyNoInterestSurcharge {
			rate = rate.Mul(c.opts.NoInterestSurcharge)
		}
		commissionPct = rate.Mul(hundred)
	}
	b.Commission = percentOf(price, commissionPct)
	rates.CommissionPercent = commissionPct
	t.addNonZero("Comissão do canal", percentExpr(price, commissionPct, b.Commission), b.Commission, ptr(commissionPct))

	// 8: tax
	if tax := percentOf(price, s.TaxPercent); tax.IsPositive() {
		b.Tax = tax
		rates.TaxPercent = s.TaxPercent
		t.add("Impostos", percentExpr(price, s.TaxPercent, tax), tax, ptr(s.TaxPercent))
	}

	// 9: ads
	if ov.AdsPercent != nil {
		b.Ads = percentOf(price, *ov.AdsPercent)
		t.addNonZero("Publicidade", percentExpr(price, *ov.AdsPercent, b.Ads), b.Ads, ptr(*ov.AdsPercent))
	}

	// 10: other costs, percentage plus flat value
	other := decimal.Zero
	otherExpr := ""
	var otherRate *decimal.Decimal
	if ov.OtherCostPercent != nil {
		other = percentOf(price, *ov.OtherCostPercent)
		otherExpr = percentExpr(price, *ov.OtherCostPercent, other)
		otherRate = ptr(*ov.OtherCostPercent)
	}
	if ov.OtherCostValue != nil {
		other = other.Add(*ov.OtherCostValue)
		if otherExpr != "" {
			otherExpr += " + "
		}
		otherExpr += money(*ov.OtherCostValue)
	}
	if other.IsPositive() {
		b.Other = other
		t.add("Outros custos", otherExpr+" = "+money(other), other, otherRate)
	}

	// 11-14
	total := t.total
	profit := price.Sub(total)

	return &Result{
		ProductID: in.ProductID,
		ChannelID: in.ChannelID,
		SalePrice: price,
		TotalCost: total,
		Profit:    profit,
		Margin:    Margin(profit, price),
		ROI:       ROI(profit, s.BaseCost),
		Breakdown: b,
		Rates:     rates,
		Steps:     t.steps(),
		Warnings:  warnings,
	}, nil
}

func percentOf(value, pct decimal.Decimal) decimal.Decimal {
	return value.Mul(pct).Div(hundred)
}

func percentExpr(base, pct, result decimal.Decimal) string {
	return fmt.Sprintf("%s × %s%% = %s", money(base), pct.StringFixed(2), money(result))
}

func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func ptr(v decimal.Decimal) *decimal.Decimal {
	return &v
}
