package ledgercsv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/MrJamesThe3rd/kakeibo/internal/importer/ledgercsv"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

func TestParser_ExportFormat(t *testing.T) {
	csv := "\uFEFF日付,カテゴリ,金額,メモ\n" +
		"2024-01-01,食費,500,\"lunch\"\n" +
		"2024-01-02,交通費,120.5,\"say \"\"hi\"\", ok\"\n" +
		"2024-01-25,給与,250000,\"\""

	p := ledgercsv.NewParser()
	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, "食費", rows[0].Category)
	assert.Equal(t, "500", rows[0].Amount.String())
	assert.Equal(t, "lunch", rows[0].Memo)
	assert.Empty(t, rows[0].Type)

	assert.Equal(t, "120.5", rows[1].Amount.String())
	assert.Equal(t, `say "hi", ok`, rows[1].Memo)

	assert.Equal(t, "給与", rows[2].Category)
	assert.Empty(t, rows[2].Memo)
}

func TestParser_EnglishHeaderAnyOrder(t *testing.T) {
	csv := `exported by someone
Amount,Memo,Type,Date,Category
"1,200",coffee,expense,2024/3/5,食費
300,bonus,income,2024-03-06,副業
`

	p := ledgercsv.NewParser()
	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2024-03-05", rows[0].Date)
	assert.Equal(t, "1200", rows[0].Amount.String())
	assert.Equal(t, ledger.TypeExpense, rows[0].Type)
	assert.Equal(t, 3, rows[0].Line)

	assert.Equal(t, ledger.TypeIncome, rows[1].Type)
}

func TestParser_JapaneseAmountsAndTypes(t *testing.T) {
	csv := `日付,種類,カテゴリ,金額
2024/01/10,支出,食費,"¥1,500"
2024/01/11,収入,給与,２５００円
`

	p := ledgercsv.NewParser()
	rows, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1500", rows[0].Amount.String())
	assert.Equal(t, ledger.TypeExpense, rows[0].Type)
	assert.Equal(t, "2500", rows[1].Amount.String())
	assert.Equal(t, ledger.TypeIncome, rows[1].Type)
}

func TestParser_ShiftJIS(t *testing.T) {
	utf8CSV := "日付,カテゴリ,金額,メモ\n2024-01-01,食費,500,昼ごはん\n"

	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := ledgercsv.NewParser()
	rows, err := p.Parse(bytes.NewReader(sjis))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "昼ごはん", rows[0].Memo)
}

func TestParser_Errors(t *testing.T) {
	type testCase struct {
		name    string
		csv     string
		wantErr string
	}

	tests := []testCase{
		{name: "EmptyFile", csv: "", wantErr: "no matching header"},
		{name: "UnknownHeader", csv: "a,b,c\n1,2,3\n", wantErr: "no matching header"},
		{name: "BadDate", csv: "日付,カテゴリ,金額\n01-02-2024,食費,500\n", wantErr: "line 2: invalid date"},
		{name: "BadAmount", csv: "日付,カテゴリ,金額\n2024-01-02,食費,abc\n", wantErr: "line 2: invalid amount"},
		{name: "MissingCategory", csv: "日付,カテゴリ,金額\n2024-01-02,,500\n", wantErr: "line 2: missing category"},
		{name: "BadType", csv: "date,category,amount,type\n2024-01-02,食費,500,transfer\n", wantErr: "line 2: invalid type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledgercsv.NewParser().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParser_HeaderOnlyAndBlankLines(t *testing.T) {
	rows, err := ledgercsv.NewParser().Parse(strings.NewReader("日付,カテゴリ,金額,メモ\n\n,,,\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
