package extract

import (
	"fmt"
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// commaDecimalCountries 使用 "," 作小数点、"." 作千分位的国家
var commaDecimalCountries = map[string]bool{
	"DE": true,
}

var hundred = decimal.NewFromInt(100)

// FormatPrice 将 {CurrencyCode, Amount(分)} 格式化为带货币符号的金额字符串。
// 任一子字段缺失时返回 nil。
func FormatPrice(match any, locale Locale) any {
	node, ok := match.(map[string]any)
	if !ok {
		return nil
	}

	code := scalarString(node["CurrencyCode"])
	amount := scalarString(node["Amount"])
	if code == "" || amount == "" {
		return nil
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil
	}

	thousand, dec := ",", "."
	if commaDecimalCountries[locale.Code] {
		thousand, dec = ".", ","
	}

	ac := accounting.Accounting{
		Symbol:    currencySymbol(code),
		Precision: 2,
		Thousand:  thousand,
		Decimal:   dec,
	}
	return ac.FormatMoneyDecimal(value.Div(hundred))
}

// FormatToNumber 取 Amount 的整数值（截断小数），缺失或无法解析时返回 nil
func FormatToNumber(match any, _ Locale) any {
	node, ok := match.(map[string]any)
	if !ok {
		return nil
	}

	amount := scalarString(node["Amount"])
	if amount == "" {
		return nil
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil
	}
	return int(value.IntPart())
}

// currencySymbol ISO 货币代码 -> 显示符号；未知代码原样返回
func currencySymbol(code string) string {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return code
	}
	return fmt.Sprint(currency.NarrowSymbol(unit))
}
