package server

import (
	"net"
	"net/url"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rpgo/lifeplan-simulator/internal/calculation"
	"github.com/rpgo/lifeplan-simulator/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

const bundleJSON = `{
  "profile": {"current_age": 40, "start_year": 2025, "end_age": 42, "monthly_living_expense": 20},
  "income": {"personal": [{"id": "salary", "name": "Salary", "role": "salary", "amounts": {"2025": 500, "2026": 500, "2027": 500}}], "corporate": []},
  "expenses": {"personal": [{"id": "living", "name": "Living", "role": "living", "amounts": {}, "auto_calculated": true}], "corporate": []}
}`

const bundleYAML = `profile: {current_age: 40, start_year: 2025, end_age: 41}
income: {personal: [], corporate: []}
expenses: {personal: [], corporate: []}
`

type testClient struct {
	t      *testing.T
	client *fasthttp.Client
}

func startServer(t *testing.T) *testClient {
	t.Helper()
	engine := calculation.NewCalculationEngine()
	srv := New(engine, session.New(engine, nil), nil)
	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { ln.Close() })
	return &testClient{t: t, client: &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}}
}

func (c *testClient) do(method, uri, contentType, body string) (int, []byte) {
	c.t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	req.Header.SetMethod(method)
	req.SetRequestURI("http://lifeplan" + uri)
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	req.SetBodyString(body)
	require.NoError(c.t, c.client.Do(req, resp))
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func decodeError(t *testing.T, body []byte) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er))
	return er
}

func TestHealthz(t *testing.T) {
	c := startServer(t)
	status, body := c.do(fasthttp.MethodGet, "/healthz", "", "")
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `"ok"`)
}

func TestProjectReturnsDocument(t *testing.T) {
	c := startServer(t)
	status, body := c.do(fasthttp.MethodPost, "/v1/projections", "application/json", bundleJSON)
	require.Equal(t, fasthttp.StatusOK, status, string(body))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	ledger, ok := doc["ledger"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, ledger, 3)
	assert.Contains(t, doc, "profile")
	assert.Contains(t, doc, "parameters")
}

func TestProjectYAMLWithFormat(t *testing.T) {
	c := startServer(t)
	status, body := c.do(fasthttp.MethodPost, "/v1/projections?format=csv", "application/yaml", bundleYAML)
	require.Equal(t, fasthttp.StatusOK, status, string(body))
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "year,age,"))
}

func TestProjectErrors(t *testing.T) {
	c := startServer(t)

	status, body := c.do(fasthttp.MethodPost, "/v1/projections", "application/json", `{"income": {}}`)
	assert.Equal(t, fasthttp.StatusBadRequest, status)
	er := decodeError(t, body)
	assert.Equal(t, fasthttp.StatusBadRequest, er.Status)
	assert.Contains(t, er.Message, "profile")

	status, _ = c.do(fasthttp.MethodPost, "/v1/projections?format=pdf", "application/json", bundleJSON)
	assert.Equal(t, fasthttp.StatusBadRequest, status)

	status, _ = c.do(fasthttp.MethodGet, "/v1/projections", "", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, status)

	status, _ = c.do(fasthttp.MethodGet, "/nowhere", "", "")
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestValidate(t *testing.T) {
	c := startServer(t)

	status, body := c.do(fasthttp.MethodPost, "/v1/validate", "application/json", bundleJSON)
	require.Equal(t, fasthttp.StatusOK, status)
	var vr ValidateResponse
	require.NoError(t, json.Unmarshal(body, &vr))
	assert.True(t, vr.Valid)

	status, body = c.do(fasthttp.MethodPost, "/v1/validate", "application/yaml", "profile: {current_age: 30}\n")
	require.Equal(t, fasthttp.StatusOK, status)
	vr = ValidateResponse{}
	require.NoError(t, json.Unmarshal(body, &vr))
	assert.False(t, vr.Valid)
	assert.Contains(t, vr.Message, "income")
}

func TestSessionLifecycle(t *testing.T) {
	c := startServer(t)

	status, body := c.do(fasthttp.MethodGet, "/v1/session", "", "")
	assert.Equal(t, fasthttp.StatusNotFound, status)
	assert.Contains(t, decodeError(t, body).Message, "no session")

	status, body = c.do(fasthttp.MethodPost, "/v1/session", "application/json", bundleJSON)
	require.Equal(t, fasthttp.StatusOK, status, string(body))

	status, _ = c.do(fasthttp.MethodGet, "/v1/session", "", "")
	assert.Equal(t, fasthttp.StatusOK, status)

	status, body = c.do(fasthttp.MethodGet, "/v1/session/ledger?path="+url.QueryEscape(`$["2025"].living_expense`), "", "")
	require.Equal(t, fasthttp.StatusOK, status, string(body))
	var qr QueryResponse
	require.NoError(t, json.Unmarshal(body, &qr))
	assert.Equal(t, "240", qr.Result)

	status, body = c.do(fasthttp.MethodGet, "/v1/session/ledger", "", "")
	require.Equal(t, fasthttp.StatusOK, status)
	var ledger map[string]any
	require.NoError(t, json.Unmarshal(body, &ledger))
	assert.Len(t, ledger, 3)

	status, _ = c.do(fasthttp.MethodGet, "/v1/session/ledger?path="+url.QueryEscape("$["), "", "")
	assert.Equal(t, fasthttp.StatusBadRequest, status)

	status, _ = c.do(fasthttp.MethodPost, "/v1/session/rerun", "", "")
	assert.Equal(t, fasthttp.StatusOK, status)
}

func TestFailedSessionImportKeepsState(t *testing.T) {
	c := startServer(t)
	status, _ := c.do(fasthttp.MethodPost, "/v1/session", "application/json", bundleJSON)
	require.Equal(t, fasthttp.StatusOK, status)

	status, _ = c.do(fasthttp.MethodPost, "/v1/session", "application/json", `{"profile": {"current_age": 1}}`)
	assert.Equal(t, fasthttp.StatusBadRequest, status)

	status, body := c.do(fasthttp.MethodGet, "/v1/session/ledger?path="+url.QueryEscape(`$["2027"].age`), "", "")
	require.Equal(t, fasthttp.StatusOK, status, string(body))
	var qr QueryResponse
	require.NoError(t, json.Unmarshal(body, &qr))
	assert.Equal(t, float64(42), qr.Result)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fasthttp.StatusNotFound, statusFor(session.ErrNoSession))
	assert.Equal(t, fasthttp.StatusInternalServerError, statusFor(assert.AnError))
}
