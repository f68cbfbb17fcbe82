package api

import "strings"

// DefaultHost 未指定站点时使用的默认服务主机
const DefaultHost = "webservices.amazon.com"

// Endpoint 站点描述：站点名、国家代码与服务主机
type Endpoint struct {
	Name string
	Code string
	Host string
}

// endpoints 站点表（只读）
var endpoints = []Endpoint{
	{Name: "canada", Code: "CA", Host: "webservices.amazon.ca"},
	{Name: "china", Code: "CN", Host: "webservices.amazon.cn"},
	{Name: "germany", Code: "DE", Host: "webservices.amazon.de"},
	{Name: "spain", Code: "ES", Host: "webservices.amazon.es"},
	{Name: "france", Code: "FR", Host: "webservices.amazon.fr"},
	{Name: "italy", Code: "IT", Host: "webservices.amazon.it"},
	{Name: "japan", Code: "JP", Host: "webservices.amazon.co.jp"},
	{Name: "uk", Code: "GB", Host: "webservices.amazon.co.uk"},
	{Name: "us", Code: "US", Host: "webservices.amazon.com"},
	{Name: "india", Code: "IN", Host: "webservices.amazon.in"},
}

// Endpoints 返回站点表的副本
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(endpoints))
	copy(out, endpoints)
	return out
}

// LookupEndpoint 根据国家代码（不区分大小写）或站点名（精确匹配）查找站点
func LookupEndpoint(country string) (Endpoint, bool) {
	if country == "" {
		return Endpoint{}, false
	}

	code := strings.ToUpper(country)
	for _, e := range endpoints {
		if e.Code == code || e.Name == country {
			return e, true
		}
	}

	return Endpoint{}, false
}
