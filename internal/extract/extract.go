// Package extract 从嵌套的响应文档中按路径规则提取扁平字段。
//
// 上游文档的结构并不稳定：同一字段可能是标量、单元素数组，也可能缺失。
// 这里的函数对此一律容忍：缺失即省略，不报错。
package extract

import (
	"fmt"
	"strconv"
)

const (
	errorMessagePath = "$..Error..Message"
	itemRootPath     = "$..Item"
)

// Locale 转换函数可读取的区域信息
type Locale struct {
	Country string // 调用方传入的原始值
	Code    string // 解析后的国家代码（如 DE），无法解析时为空
}

// TransformFunc 字段转换函数，返回 nil 表示该字段不输出
type TransformFunc func(match any, locale Locale) any

// Rule 提取规则：输出键、查询路径和可选的转换函数
type Rule struct {
	Name      string
	Path      string
	Transform TransformFunc
}

// Record 一次提取的结果；nil 表示没有任何字段
type Record map[string]any

// DefaultRules 返回默认规则集（每次返回新切片）
func DefaultRules() []Rule {
	return []Rule{
		{Name: "id", Path: "ASIN"},
		{Name: "listPrice", Path: "ItemAttributes..ListPrice", Transform: FormatPrice},
		{Name: "name", Path: "ItemAttributes..Title"},
		{Name: "offerPrice", Path: "Offers..Offer..Price", Transform: FormatPrice},
		{Name: "lowestPrice", Path: "OfferSummary..LowestNewPrice", Transform: FormatPrice},
		{Name: "lowestPriceSortable", Path: "OfferSummary..LowestNewPrice", Transform: FormatToNumber},
		{Name: "url", Path: "DetailPageURL"},
		{Name: "remaining", Path: "OfferSummary..TotalNew"},
		{Name: "image", Path: "LargeImage..URL"},
	}
}

// Extract 按规则逐个提取字段。规则之间互不可见；值为 nil 的字段不输出；
// 没有任何字段时返回 nil 而不是空 Record。
func Extract(node any, rules []Rule, locale Locale) Record {
	record := make(Record, len(rules))

	for _, rule := range rules {
		value := First(node, rule.Path)
		if rule.Transform != nil {
			value = rule.Transform(value, locale)
		}
		if value == nil {
			continue
		}
		record[rule.Name] = value
	}

	if len(record) == 0 {
		return nil
	}
	return record
}

// ExtractError 查找文档中内嵌的错误信息，没有时返回空字符串
func ExtractError(doc any) string {
	msg := First(doc, errorMessagePath)
	if msg == nil {
		return ""
	}
	return scalarString(msg)
}

// LocateItemRoots 定位所有商品节点。没有商品时返回空列表；
// 单个对象会被包装成单元素列表。
func LocateItemRoots(doc any) []any {
	switch root := First(doc, itemRootPath).(type) {
	case nil:
		return []any{}
	case []any:
		return root
	default:
		return []any{root}
	}
}

// scalarString 取标量的字符串形式；单元素（或多元素）数组取第一个元素
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case []any:
		if len(x) == 0 {
			return ""
		}
		return scalarString(x[0])
	case map[string]any:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
