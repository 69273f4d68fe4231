package trade

import (
	"math"
	"time"

	"github.com/Satyam78612/fluxor/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// guardWindow suppresses percentage writes briefly after a manual
	// field edit, so a slider bound to the computed percentage cannot
	// bounce the freshly typed value.
	guardWindow = 100 * time.Millisecond

	// percentageHysteresis is the minimum move (in percentage points)
	// before a manual edit is reflected back into the percentage.
	percentageHysteresis = 0.5

	// minNotionalUSD is the smallest order value considered submittable.
	minNotionalUSD = 1.0

	quantityPlaces = 4
	totalPlaces    = 2
)

// Session keeps the three trade inputs (quantity, total, percentage)
// mutually consistent for one token at one price. Buy edits the USD
// total and derives quantity; sell edits the quantity and derives the
// USD total; the percentage drives both when no edit guard is active.
// Values used for derivation are clamped to the side's balance ceiling,
// but the raw typed value is kept for over-balance reporting.
type Session struct {
	side         domain.TradeSide
	price        float64
	availableUSD float64
	tokenBalance float64

	quantityText string
	totalText    string
	percentage   float64

	rawInput   float64
	inputValid bool

	guardUntil time.Time
	nowFn      func() time.Time
}

// NewSession creates a synchronizer for the given side and market state.
func NewSession(side domain.TradeSide, price, availableUSD, tokenBalance float64) *Session {
	return &Session{
		side:         side,
		price:        price,
		availableUSD: availableUSD,
		tokenBalance: tokenBalance,
		nowFn:        time.Now,
	}
}

// SetPrice updates the quote price without touching the typed fields.
func (s *Session) SetPrice(price float64) { s.price = price }

// Side returns the current trade side.
func (s *Session) Side() domain.TradeSide { return s.side }

// QuantityText returns the quantity field as displayed.
func (s *Session) QuantityText() string { return s.quantityText }

// TotalText returns the USD total field as displayed.
func (s *Session) TotalText() string { return s.totalText }

// Percentage returns the slider position, 0-100.
func (s *Session) Percentage() float64 { return s.percentage }

// SwitchSide changes the trade side and resets all inputs.
func (s *Session) SwitchSide(side domain.TradeSide) {
	if !side.IsValid() || side == s.side {
		return
	}
	s.side = side
	s.quantityText = ""
	s.totalText = ""
	s.percentage = 0
	s.rawInput = 0
	s.inputValid = false
	s.guardUntil = time.Time{}
}

// ceiling is the side's spendable maximum: USD balance when buying,
// token balance when selling.
func (s *Session) ceiling() float64 {
	if s.side == domain.SideBuy {
		return s.availableUSD
	}
	return s.tokenBalance
}

// EditTotal handles a manual edit of the USD total (buy side only).
// The derived quantity comes from the value clamped to the USD balance;
// non-numeric input derives a zero quantity.
func (s *Session) EditTotal(text string) {
	if s.side != domain.SideBuy {
		return
	}
	s.totalText = text
	s.guardUntil = s.nowFn().Add(guardWindow)

	d, err := decimal.NewFromString(text)
	if err != nil || d.IsNegative() {
		s.quantityText = zeroQuantity()
		s.rawInput = 0
		s.inputValid = false
		return
	}
	s.rawInput = d.InexactFloat64()
	s.inputValid = true

	effective := math.Min(s.rawInput, s.availableUSD)
	qty := Quote(domain.SideBuy, effective, s.price)
	s.quantityText = decimal.NewFromFloat(qty).StringFixed(quantityPlaces)
	s.updatePercentageFrom(effective)
}

// EditQuantity handles a manual edit of the token quantity (sell side
// only). The derived total comes from the value clamped to the token
// balance; non-numeric input derives a zero total.
func (s *Session) EditQuantity(text string) {
	if s.side != domain.SideSell {
		return
	}
	s.quantityText = text
	s.guardUntil = s.nowFn().Add(guardWindow)

	d, err := decimal.NewFromString(text)
	if err != nil || d.IsNegative() {
		s.totalText = zeroTotal()
		s.rawInput = 0
		s.inputValid = false
		return
	}
	s.rawInput = d.InexactFloat64()
	s.inputValid = true

	effective := math.Min(s.rawInput, s.tokenBalance)
	total := Quote(domain.SideSell, effective, s.price)
	s.totalText = decimal.NewFromFloat(total).StringFixed(totalPlaces)
	s.updatePercentageFrom(effective)
}

// SetPercentage handles a slider move. Ignored while the edit guard is
// active; otherwise both text fields are recomputed from the ceiling.
func (s *Session) SetPercentage(pct float64) {
	if s.nowFn().Before(s.guardUntil) {
		return
	}
	pct = math.Max(0, math.Min(100, pct))
	s.percentage = pct

	amount := pct / 100 * s.ceiling()
	s.rawInput = amount
	s.inputValid = true

	if s.side == domain.SideBuy {
		s.totalText = decimal.NewFromFloat(amount).StringFixed(totalPlaces)
		qty := Quote(domain.SideBuy, amount, s.price)
		s.quantityText = decimal.NewFromFloat(qty).StringFixed(quantityPlaces)
	} else {
		s.quantityText = decimal.NewFromFloat(amount).StringFixed(quantityPlaces)
		total := Quote(domain.SideSell, amount, s.price)
		s.totalText = decimal.NewFromFloat(total).StringFixed(totalPlaces)
	}
}

// updatePercentageFrom reflects a clamped manual edit back into the
// percentage, with hysteresis so tiny moves do not twitch the slider.
func (s *Session) updatePercentageFrom(effective float64) {
	ceiling := s.ceiling()
	if ceiling <= 0 {
		return
	}
	pct := math.Min(100, effective/ceiling*100)
	if math.Abs(pct-s.percentage) > percentageHysteresis {
		s.percentage = pct
	}
}

// Validation reports the computed input state. Nothing here ever
// panics or errors: an over-balance entry just flags the form invalid.
type Validation struct {
	IsOverBalance bool
	IsValid       bool
}

// Validate checks the raw typed value against the side's ceiling and
// the minimum order value.
func (s *Session) Validate() Validation {
	v := Validation{}
	if !s.inputValid || s.rawInput <= 0 {
		return v
	}
	v.IsOverBalance = s.rawInput > s.ceiling()

	notional := s.rawInput
	if s.side == domain.SideSell {
		notional = Quote(domain.SideSell, math.Min(s.rawInput, s.tokenBalance), s.price)
	}
	v.IsValid = !v.IsOverBalance && notional >= minNotionalUSD
	return v
}

func zeroQuantity() string { return decimal.Zero.StringFixed(quantityPlaces) }
func zeroTotal() string    { return decimal.Zero.StringFixed(totalPlaces) }
