package repoargs

import "github.com/shopspring/decimal"

type UpsertCategory struct {
	Name        string
	Description string
	ImageURL    string
}

type UpsertProduct struct {
	CategoryID  int64
	Name        string
	Description string
	Currency    string
	CostPrice   decimal.Decimal
	SellPrice   decimal.Decimal
	ImageURL    string
	IsAvailable bool
	ProductType string
	APILinked   bool
	APIDetails  string
}

type CreateCustomOption struct {
	OptionName   string
	OptionValues string
}

// ProductFilter задает параметры выборки списка продуктов.
// CategoryID равный нулю и пустой Search отключают соответствующие фильтры.
type ProductFilter struct {
	CategoryID int64
	Search     string
	Page       uint
	PerPage    uint
}

type Pagination struct {
	Page    uint
	PerPage uint
	Total   uint
	Pages   uint
}
