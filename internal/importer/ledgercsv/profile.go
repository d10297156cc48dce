package ledgercsv

// Profile describes the header names of a supported CSV layout. Column order is free;
// the type column is optional.
type Profile struct {
	Name        string
	DateCol     string
	CategoryCol string
	AmountCol   string
	MemoCol     string
	TypeCol     string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.CategoryCol, p.AmountCol}
}

// profiles is the ordered list of layouts tried during auto-detection.
var profiles = []Profile{
	{
		Name:        "ja",
		DateCol:     "日付",
		CategoryCol: "カテゴリ",
		AmountCol:   "金額",
		MemoCol:     "メモ",
		TypeCol:     "種類",
	},
	{
		Name:        "en",
		DateCol:     "date",
		CategoryCol: "category",
		AmountCol:   "amount",
		MemoCol:     "memo",
		TypeCol:     "type",
	},
}

// typeLabels maps the values accepted in the type column.
var typeLabels = map[string]string{
	"収入":      "income",
	"支出":      "expense",
	"income":  "income",
	"expense": "expense",
}
