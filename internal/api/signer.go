package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	// RequestPath 商品广告 REST 接口路径
	RequestPath = "/onca/xml"
	// ServiceName 服务名
	ServiceName = "AWSECommerceService"
	// APIVersion 接口版本
	APIVersion = "2013-08-01"
)

// Credentials 调用凭证
type Credentials struct {
	AccessKeyID  string
	SecretKey    string
	AssociateTag string
}

// signedQuery 为请求参数补全公共参数并计算签名（AWS signature version 2），
// 返回已编码的查询字符串
func signedQuery(creds Credentials, host, operation string, params map[string]string, now time.Time) string {
	all := make(map[string]string, len(params)+6)
	for k, v := range params {
		all[k] = v
	}
	all["Service"] = ServiceName
	all["Operation"] = operation
	all["AWSAccessKeyId"] = creds.AccessKeyID
	all["Timestamp"] = now.UTC().Format(time.RFC3339)
	all["Version"] = APIVersion
	if creds.AssociateTag != "" {
		all["AssociateTag"] = creds.AssociateTag
	}

	canonical := canonicalQuery(all)

	stringToSign := strings.Join([]string{"GET", host, RequestPath, canonical}, "\n")
	mac := hmac.New(sha256.New, []byte(creds.SecretKey))
	mac.Write([]byte(stringToSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return canonical + "&Signature=" + escape(signature)
}

// canonicalQuery 按键名字节序排序并以 RFC 3986 编码
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, escape(k)+"="+escape(params[k]))
	}
	return strings.Join(pairs, "&")
}

// escape RFC 3986 编码（空格编码为 %20）
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
