package component

// Market attaches to rooms that trade. PriceMod is a percentage applied on
// top of item base values; the economy system drifts it toward Baseline.
type Market struct {
	PriceMod int `json:"price_mod"` // percent, 100 = base prices
	Baseline int `json:"baseline"`
	Supply   int `json:"supply"`
	Demand   int `json:"demand"`
}

func NewMarket() *Market {
	return &Market{PriceMod: 100, Baseline: 100}
}
