package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"amazonprice/internal/api"
	"amazonprice/internal/config"
	"amazonprice/internal/extract"
	"amazonprice/internal/lookup"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureExecutor struct {
	req api.Request
}

func (c *captureExecutor) Execute(_ context.Context, req api.Request) (any, error) {
	c.req = req
	return map[string]any{}, nil
}

func parse(t *testing.T, args ...string) *options {
	t.Helper()
	_, opts := parseFlags(t, args...)
	return opts
}

func parseFlags(t *testing.T, args ...string) (*pflag.FlagSet, *options) {
	t.Helper()
	flags, opts := newFlagSet(&bytes.Buffer{})
	require.NoError(t, flags.Parse(args))
	return flags, opts
}

func TestNewQuery_FromFlags(t *testing.T) {
	flags, opts := parseFlags(t, "-i", "id", "-s", "secret", "-c", "germany",
		"-k", "tea kettle", "-p", "10..20", "--page", "3", "-l", "5", "-1", "--node", "284507")
	cfg, err := config.Load(t.TempDir(), flags)
	require.NoError(t, err)
	exec := &captureExecutor{}

	_, err = newQuery(cfg, opts, exec).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, api.OperationItemSearch, exec.req.Operation)
	assert.Equal(t, "webservices.amazon.de", exec.req.Host)
	assert.Equal(t, api.Credentials{
		AccessKeyID:  "id",
		SecretKey:    "secret",
		AssociateTag: config.DefaultAssociateTag,
	}, exec.req.Credentials)
	assert.Equal(t, map[string]string{
		"ResponseGroup": "Offers,ItemAttributes,Images",
		"Keywords":      "tea kettle",
		"SearchIndex":   "All",
		"MinimumPrice":  "1000",
		"MaximumPrice":  "2000",
		"ItemPage":      "3",
		"BrowseNode":    "284507",
	}, exec.req.Params)
}

func TestNewQuery_ItemAndEAN(t *testing.T) {
	cfg := &config.Config{PAAPI: config.PAAPIConfig{AssociateTag: "mine-20"}}

	op, params := newQuery(cfg, parse(t, "--item", "B001"), nil).BuildRequest()
	assert.Equal(t, api.OperationItemLookup, op)
	assert.Equal(t, "B001", params["ItemId"])
	assert.NotContains(t, params, "IdType")

	op, params = newQuery(cfg, parse(t, "--ean", "4006381333931"), nil).BuildRequest()
	assert.Equal(t, api.OperationItemLookup, op)
	assert.Equal(t, "EAN", params["IdType"])

	exec := &captureExecutor{}
	_, err := newQuery(cfg, parse(t, "--item", "B001"), exec).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mine-20", exec.req.Credentials.AssociateTag)
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, lookup.Result{Items: []extract.Record{{"id": "B001", "lowestPrice": "€10,50"}}}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]any{{"id": "B001", "lowestPrice": "€10,50"}}, got)
	assert.Contains(t, buf.String(), "€")

	buf.Reset()
	require.NoError(t, printResult(&buf, lookup.Result{Single: true}))
	assert.Equal(t, "null\n", buf.String())

	buf.Reset()
	require.NoError(t, printResult(&buf, lookup.Result{}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRun_RequiresQuery(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"--country", "DE"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "--keywords")
}

func TestRun_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run([]string{"--bogus"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "bogus")
}

func TestRun_MissingCredentials(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-k", "kettle"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), api.ErrMissingCredentials.Error())
}
