package api

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
)

// DecodeXML 将 XML 响应解析为通用树结构：
// 元素 -> map[string]any，重复的同名子元素 -> []any，叶子元素 -> string。
// 属性被忽略，根元素名作为顶层键保留。
func DecodeXML(r io.Reader) (map[string]any, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return map[string]any{n.Data: elementValue(n)}, nil
		}
	}

	return nil, ErrEmptyResponse
}

func elementValue(n *xmlquery.Node) any {
	var obj map[string]any
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if obj == nil {
			obj = make(map[string]any)
		}

		v := elementValue(c)
		switch existing := obj[c.Data].(type) {
		case nil:
			obj[c.Data] = v
		case []any:
			obj[c.Data] = append(existing, v)
		default:
			obj[c.Data] = []any{existing, v}
		}
	}

	if obj == nil {
		return strings.TrimSpace(n.InnerText())
	}
	return obj
}
