// Package lookup 提供链式的商品查询构建器：累积查询参数，执行签名请求，
// 并把响应整理成扁平的商品记录。
package lookup

import (
	"strconv"
	"strings"

	"amazonprice/internal/api"
	"amazonprice/internal/extract"

	"go.uber.org/zap"
)

// DefaultSearchIndex 未指定时使用的搜索类目
const DefaultSearchIndex = "All"

// Mode 查询模式
type Mode int

const (
	ModeLookup Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "lookup"
}

// InputKind 构造输入的类型
type InputKind int

const (
	ByIdentifier InputKind = iota
	ByBarcode
	BySearch
)

// Input 构造输入：商品编号、条码（EAN）或搜索关键词
type Input struct {
	Kind  InputKind
	Value string
}

// ByID 按商品编号查询
func ByID(id string) Input { return Input{Kind: ByIdentifier, Value: id} }

// ByEAN 按 EAN 条码查询
func ByEAN(ean string) Input { return Input{Kind: ByBarcode, Value: ean} }

// ByKeywords 按关键词搜索
func ByKeywords(keywords string) Input { return Input{Kind: BySearch, Value: keywords} }

// Query 一次远程调用的查询配置。
// 所有设置方法都修改并返回同一个实例；Done 之后不应再修改。
type Query struct {
	mode     Mode
	itemID   string
	ean      string
	keywords string

	creds       api.Credentials
	country     string
	countryCode string
	host        string

	minimumPrice *int
	maximumPrice *int
	page         *int
	browseNode   string
	searchIndex  string

	limit      int
	one        bool
	loadImages bool

	rules []extract.Rule

	executor api.Executor
	logger   *zap.Logger
}

// Option 初始配置
type Option func(*Query)

// WithCredentials 设置调用凭证
func WithCredentials(creds api.Credentials) Option {
	return func(q *Query) { q.Credentials(creds) }
}

// WithCountry 设置站点
func WithCountry(country string) Option {
	return func(q *Query) { q.Country(country) }
}

// WithRules 替换默认提取规则
func WithRules(rules []extract.Rule) Option {
	return func(q *Query) { q.Rules(rules) }
}

// WithLogger 设置日志器（仅用于调试输出）
func WithLogger(logger *zap.Logger) Option {
	return func(q *Query) { q.logger = logger }
}

// New 创建查询。模式在此确定且之后不再改变。
func New(input Input, executor api.Executor, opts ...Option) *Query {
	q := &Query{
		executor: executor,
		rules:    extract.DefaultRules(),
		logger:   zap.NewNop(),
	}

	switch input.Kind {
	case BySearch:
		q.mode = ModeSearch
		q.keywords = input.Value
	case ByBarcode:
		q.ean = input.Value
	default:
		q.itemID = input.Value
	}

	for _, opt := range opts {
		opt(q)
	}
	if q.logger == nil {
		q.logger = zap.NewNop()
	}

	return q
}

// Mode 返回查询模式
func (q *Query) Mode() Mode { return q.mode }

// Credentials 一次性设置全部凭证
func (q *Query) Credentials(creds api.Credentials) *Query {
	q.creds = creds
	return q
}

// ID 设置 access key id
func (q *Query) ID(id string) *Query {
	q.creds.AccessKeyID = id
	return q
}

// Secret 设置 secret key
func (q *Query) Secret(secret string) *Query {
	q.creds.SecretKey = secret
	return q
}

// Associate 设置联盟（associate）标签
func (q *Query) Associate(tag string) *Query {
	q.creds.AssociateTag = tag
	return q
}

// Country 按国家代码或站点名设置站点。无法识别的值不改变站点，也不报错。
func (q *Query) Country(country string) *Query {
	if country == "" {
		return q
	}

	q.country = country
	if e, ok := api.LookupEndpoint(country); ok {
		q.host = e.Host
		q.countryCode = e.Code
	}
	return q
}

// Price 解析 "min..max" 形式的价格区间（整数货币单位），任一侧可以为空；
// 不含 ".." 时整个字符串作为下限。
func (q *Query) Price(r string) *Query {
	return q.PriceBounds(strings.SplitN(r, "..", 2))
}

// PriceBounds 以 [min, max] 序列设置价格区间，只有一个元素时仅设置下限
func (q *Query) PriceBounds(bounds []string) *Query {
	if len(bounds) > 0 {
		if v, ok := toMinorUnits(bounds[0]); ok {
			q.minimumPrice = &v
		}
	}
	if len(bounds) > 1 {
		if v, ok := toMinorUnits(bounds[1]); ok {
			q.maximumPrice = &v
		}
	}
	return q
}

// PriceRange 以数值设置价格区间，nil 表示该侧不限制
func (q *Query) PriceRange(minimum, maximum *float64) *Query {
	if minimum != nil && *minimum >= 0 {
		v := int(*minimum*100 + 0.5)
		q.minimumPrice = &v
	}
	if maximum != nil && *maximum >= 0 {
		v := int(*maximum*100 + 0.5)
		q.maximumPrice = &v
	}
	return q
}

// Page 设置结果页码
func (q *Query) Page(page int) *Query {
	q.page = &page
	return q
}

// Limit 只保留前 n 条结果（0 表示不限制）
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// One 只返回第一条结果；不带参数时为 true
func (q *Query) One(one ...bool) *Query {
	q.one = len(one) == 0 || one[0]
	return q
}

// LoadImages 是否提取图片集
func (q *Query) LoadImages(load bool) *Query {
	q.loadImages = load
	return q
}

// BrowseNode 设置类目节点过滤，空值忽略
func (q *Query) BrowseNode(node string) *Query {
	if node != "" {
		q.browseNode = node
	}
	return q
}

// SearchIndex 设置搜索类目，空值忽略
func (q *Query) SearchIndex(index string) *Query {
	if index != "" {
		q.searchIndex = index
	}
	return q
}

// Rules 替换提取规则
func (q *Query) Rules(rules []extract.Rule) *Query {
	q.rules = append([]extract.Rule(nil), rules...)
	return q
}

// AddRule 追加一条提取规则
func (q *Query) AddRule(rule extract.Rule) *Query {
	q.rules = append(q.rules, rule)
	return q
}

// Host 返回解析后的服务主机，未设置时为空
func (q *Query) Host() string { return q.host }

// MinimumPrice 返回价格下限（分）
func (q *Query) MinimumPrice() (int, bool) { return deref(q.minimumPrice) }

// MaximumPrice 返回价格上限（分）
func (q *Query) MaximumPrice() (int, bool) { return deref(q.maximumPrice) }

// BuildRequest 组装接口名和请求参数
func (q *Query) BuildRequest() (string, map[string]string) {
	params := map[string]string{
		"ResponseGroup": "Offers,ItemAttributes,Images",
	}

	if q.minimumPrice != nil {
		params["MinimumPrice"] = strconv.Itoa(*q.minimumPrice)
	}
	if q.maximumPrice != nil {
		params["MaximumPrice"] = strconv.Itoa(*q.maximumPrice)
	}
	if q.page != nil {
		params["ItemPage"] = strconv.Itoa(*q.page)
	}
	if q.browseNode != "" {
		params["BrowseNode"] = q.browseNode
	}

	searchIndex := q.searchIndex
	if searchIndex == "" {
		searchIndex = DefaultSearchIndex
	}

	if q.mode == ModeSearch {
		params["SearchIndex"] = searchIndex
		params["Keywords"] = q.keywords
		return api.OperationItemSearch, params
	}

	if q.ean != "" {
		params["ItemId"] = q.ean
		params["IdType"] = "EAN"
		params["SearchIndex"] = searchIndex
	} else {
		params["ItemId"] = q.itemID
	}
	return api.OperationItemLookup, params
}

func (q *Query) locale() extract.Locale {
	return extract.Locale{Country: q.country, Code: q.countryCode}
}

// toMinorUnits 整数货币单位 -> 分；空值、非数字和负数不接受
func toMinorUnits(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return int(v*100 + 0.5), true
}

func deref(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
