package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const lookupResponse = `<?xml version="1.0" encoding="UTF-8"?>
<ItemLookupResponse xmlns="http://webservices.amazon.com/AWSECommerceService/2013-08-01">
  <Items>
    <Request><IsValid>True</IsValid></Request>
    <Item>
      <ASIN>B00TEST123</ASIN>
      <ItemAttributes><Title> Sample Kettle </Title></ItemAttributes>
    </Item>
  </Items>
</ItemLookupResponse>`

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport, *Metrics) {
	t.Helper()

	transport := httpmock.NewMockTransport()
	metrics := NewMetrics()
	client := NewClient(Config{
		HTTPClient: &http.Client{Transport: transport},
		Metrics:    metrics,
		Logger:     zap.NewNop(),
		Now: func() time.Time {
			return time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
		},
	})
	return client, transport, metrics
}

func testRequest(host string) Request {
	return Request{
		Credentials: Credentials{AccessKeyID: "id", SecretKey: "secret", AssociateTag: "tag-20"},
		Host:        host,
		Operation:   OperationItemLookup,
		Params:      map[string]string{"ItemId": "B00TEST123"},
	}
}

func TestClient_SignedURL(t *testing.T) {
	client, _, _ := newTestClient(t)

	got, err := client.SignedURL(testRequest("webservices.amazon.de"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "https://webservices.amazon.de/onca/xml?AWSAccessKeyId=id&"))
	assert.Contains(t, got, "&Signature=")

	got, err = client.SignedURL(testRequest(""))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "https://webservices.amazon.com/onca/xml?"))
}

func TestClient_SignedURL_MissingCredentials(t *testing.T) {
	client, _, _ := newTestClient(t)

	req := testRequest("")
	req.Credentials.SecretKey = ""
	_, err := client.SignedURL(req)
	assert.ErrorIs(t, err, ErrMissingCredentials)

	req = testRequest("")
	req.Credentials.AccessKeyID = ""
	_, err = client.SignedURL(req)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestClient_Execute(t *testing.T) {
	client, transport, metrics := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, "https://webservices.amazon.de/onca/xml",
		httpmock.NewStringResponder(http.StatusOK, lookupResponse))

	doc, err := client.Execute(context.Background(), testRequest("webservices.amazon.de"))
	require.NoError(t, err)

	want := map[string]any{
		"ItemLookupResponse": map[string]any{
			"Items": map[string]any{
				"Request": map[string]any{"IsValid": "True"},
				"Item": map[string]any{
					"ASIN":           "B00TEST123",
					"ItemAttributes": map[string]any{"Title": "Sample Kettle"},
				},
			},
		},
	}
	assert.Equal(t, want, doc)
	assert.Equal(t, 1, transport.GetTotalCallCount())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(OperationItemLookup, "success")))
}

func TestClient_Execute_HTTPError(t *testing.T) {
	client, transport, metrics := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, "https://webservices.amazon.com/onca/xml",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "slow down"))

	_, err := client.Execute(context.Background(), testRequest(""))
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "slow down", httpErr.Body)
	assert.Equal(t, "HTTP error: status code 503", httpErr.Error())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(OperationItemLookup, "error")))
}

func TestClient_Execute_TransportError(t *testing.T) {
	client, transport, _ := newTestClient(t)
	cause := errors.New("connection reset")
	transport.RegisterResponder(http.MethodGet, "https://webservices.amazon.com/onca/xml",
		httpmock.NewErrorResponder(cause))

	_, err := client.Execute(context.Background(), testRequest(""))
	assert.ErrorIs(t, err, cause)
}

func TestClient_Execute_MissingCredentialsSendsNothing(t *testing.T) {
	client, transport, _ := newTestClient(t)

	_, err := client.Execute(context.Background(), Request{Operation: OperationItemSearch})
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Equal(t, 0, transport.GetTotalCallCount())
}

func TestClient_Execute_InvalidXML(t *testing.T) {
	client, transport, _ := newTestClient(t)
	transport.RegisterResponder(http.MethodGet, "https://webservices.amazon.com/onca/xml",
		httpmock.NewStringResponder(http.StatusOK, ""))

	_, err := client.Execute(context.Background(), testRequest(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}
