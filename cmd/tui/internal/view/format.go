package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kakeibo/internal/money"
)

// FormatAmount formats an amount in yen with digit grouping.
func FormatAmount(d decimal.Decimal) string {
	return money.Format(d)
}

// ParseAmount accepts digits with optional grouping commas and requires a positive value.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, errors.New("金額を数値で入力してください")
	}

	if !d.IsPositive() {
		return decimal.Zero, errors.New("金額は0より大きくしてください")
	}

	return d, nil
}

func validateAmount(s string) error {
	_, err := ParseAmount(s)
	return err
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("日付は YYYY-MM-DD で入力してください")
	}

	return nil
}

func validateColor(s string) error {
	if len(s) != 7 || s[0] != '#' {
		return errors.New("色は #RRGGBB で入力してください")
	}

	for _, c := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return errors.New("色は #RRGGBB で入力してください")
		}
	}

	return nil
}
