package extract

import (
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Query 在通用树（map[string]any / []any）上执行 JSONPath 查询，返回全部匹配。
// 相对路径（如 "ASIN"）以当前节点为根；查询出错或键不存在时返回空。
func Query(node any, path string) []any {
	switch node.(type) {
	case map[string]any, []any:
	default:
		return nil
	}

	p := normalizePath(path)
	value, err := jsonpath.Get(p, node)
	if err != nil {
		return nil
	}

	if !isAmbiguous(p) {
		return []any{value}
	}

	matches, _ := value.([]any)
	return matches
}

// First 返回第一个匹配，没有匹配时返回 nil
func First(node any, path string) any {
	matches := Query(node, path)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return "$"
	case path[0] == '$', path[0] == '@':
		return path
	case path[0] == '[', path[0] == '.':
		return "$" + path
	default:
		return "$." + path
	}
}

// isAmbiguous 路径是否可能产生多个匹配（.. / * / 过滤器 / 多键 / 切片），
// 此类路径的求值结果是匹配列表而不是单个值
func isAmbiguous(path string) bool {
	if strings.Contains(path, "..") || strings.ContainsRune(path, '*') {
		return true
	}

	depth := 0
	for _, r := range path {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case '?', ',', ':':
			if depth > 0 {
				return true
			}
		}
	}
	return false
}
