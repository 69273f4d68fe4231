package trade

import "github.com/Satyam78612/fluxor/internal/domain"

// priceEpsilon floors the divisor so a zero or dust price can never
// produce Inf/NaN quantities.
const priceEpsilon = 1e-6

// Quote converts between the two sides of a trade at the given price:
// for a buy, amount is USD and the result is token quantity;
// for a sell, amount is token quantity and the result is USD total.
// Unknown sides quote to zero.
func Quote(side domain.TradeSide, amount, price float64) float64 {
	switch side {
	case domain.SideBuy:
		divisor := price
		if divisor < priceEpsilon {
			divisor = priceEpsilon
		}
		return amount / divisor
	case domain.SideSell:
		return amount * price
	default:
		return 0
	}
}
