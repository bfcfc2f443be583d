package model

type StallSize string

const (
	SizeSmall  StallSize = "SMALL"
	SizeMedium StallSize = "MEDIUM"
	SizeLarge  StallSize = "LARGE"
)

var StallSizes = []StallSize{SizeSmall, SizeMedium, SizeLarge}

func (s StallSize) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

type StallCategory string

const (
	CategoryRetail  StallCategory = "RETAIL"
	CategoryFood    StallCategory = "FOOD"
	CategorySponsor StallCategory = "SPONSOR"
	CategoryAnchor  StallCategory = "ANCHOR"
)

var StallCategories = []StallCategory{CategoryRetail, CategoryFood, CategorySponsor, CategoryAnchor}

func (c StallCategory) Valid() bool {
	switch c {
	case CategoryRetail, CategoryFood, CategorySponsor, CategoryAnchor:
		return true
	}
	return false
}

type ZoneType string

const (
	ZoneWalkway  ZoneType = "WALKWAY"
	ZoneStage    ZoneType = "STAGE"
	ZoneEntrance ZoneType = "ENTRANCE"
)

var ZoneTypes = []ZoneType{ZoneWalkway, ZoneStage, ZoneEntrance}

func (z ZoneType) Valid() bool {
	switch z {
	case ZoneWalkway, ZoneStage, ZoneEntrance:
		return true
	}
	return false
}

type InfluenceType string

const (
	InfluenceNoise    InfluenceType = "NOISE"
	InfluenceTraffic  InfluenceType = "TRAFFIC"
	InfluenceFacility InfluenceType = "FACILITY"
)

var InfluenceTypes = []InfluenceType{InfluenceNoise, InfluenceTraffic, InfluenceFacility}

func (i InfluenceType) Valid() bool {
	switch i {
	case InfluenceNoise, InfluenceTraffic, InfluenceFacility:
		return true
	}
	return false
}

// Falloff is the intensity curve of an influence gradient. Persisted in
// lower case.
type Falloff string

const (
	FalloffLinear      Falloff = "linear"
	FalloffExponential Falloff = "exponential"
)

func (f Falloff) Valid() bool {
	return f == FalloffLinear || f == FalloffExponential
}
