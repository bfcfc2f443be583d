package state

import (
	"stallmap/pkg/model"
)

// Summary is the sidebar overview of the registry.
type Summary struct {
	Total           int                         `json:"total"`
	Available       int                         `json:"available"`
	Blocked         int                         `json:"blocked"`
	TotalValueCents int64                       `json:"totalValueCents"`
	TotalValue      string                      `json:"totalValue"`
	ByCategory      map[model.StallCategory]int `json:"byCategory"`
	Zones           []Zone                      `json:"zones"`
	Influences      []Influence                 `json:"influences"`
}

func Summarize(s State) Summary {
	sum := Summary{
		Total:      len(s.Stalls),
		ByCategory: make(map[model.StallCategory]int, len(model.StallCategories)),
		Zones:      s.Zones,
		Influences: s.Influences,
	}
	for _, c := range model.StallCategories {
		sum.ByCategory[c] = 0
	}
	for _, st := range s.Stalls {
		if st.IsAvailable {
			sum.Available++
		} else {
			sum.Blocked++
		}
		sum.TotalValueCents += st.PriceCents
		sum.ByCategory[st.Category]++
	}
	sum.TotalValue = FormatPrice(sum.TotalValueCents)
	return sum
}
