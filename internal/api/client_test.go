package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioState = `{"laws":{"law_agrarianism":[{"on":"img1","off":"img2"},0]},"countries":["AFG"]}`

func TestDecodeDefaultState_KeepsDocumentOrder(t *testing.T) {
	doc := `{
		"countries": ["SWE", "AFG"],
		"laws": {
			"lawgroup_trade": [{"law_protectionism": "p.png", "law_free_trade": "f.png", "law_mercantilism": null}, 1],
			"lawgroup_economy": [{"law_agrarianism": "a.png"}, 0]
		}
	}`
	st, err := DecodeDefaultState([]byte(doc))
	require.NoError(t, err)

	require.Len(t, st.Laws, 2)
	assert.Equal(t, "lawgroup_trade", st.Laws[0].Name)
	assert.Equal(t, []string{"law_protectionism", "law_free_trade", "law_mercantilism"}, st.Laws[0].Options.Keys())
	img, _ := st.Laws[0].Options.Image("law_mercantilism")
	assert.Equal(t, "", img)
	assert.Equal(t, float64(1), st.Laws[0].Column)
	assert.Equal(t, "lawgroup_economy", st.Laws[1].Name)
	assert.Equal(t, []string{"SWE", "AFG"}, st.Countries)
}

func TestDecodeDefaultState_UnwrapsStringEncodedDocument(t *testing.T) {
	wrapped, err := json.Marshal(scenarioState)
	require.NoError(t, err)

	st, err := DecodeDefaultState(wrapped)
	require.NoError(t, err)
	require.Len(t, st.Laws, 1)
	assert.Equal(t, "law_agrarianism", st.Laws[0].Name)
	assert.Equal(t, []string{"AFG"}, st.Countries)
}

func TestDecodeDefaultState_KeepsRawColumnForGridValidation(t *testing.T) {
	st, err := DecodeDefaultState([]byte(`{"laws":{"g":[{"a":"x"},"left"]},"countries":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "left", st.Laws[0].Column)
	assert.Empty(t, st.Countries)
	assert.NotNil(t, st.Countries)
}

func TestDecodeDefaultState_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"laws":`,
		"array root":         `[]`,
		"string not json":    `"hello"`,
		"laws missing":       `{"countries":[]}`,
		"countries missing":  `{"laws":{}}`,
		"group not array":    `{"laws":{"g":{}},"countries":[]}`,
		"group wrong length": `{"laws":{"g":[{"a":"b"}]},"countries":[]}`,
		"options not object": `{"laws":{"g":[["a"],0]},"countries":[]}`,
		"image not string":   `{"laws":{"g":[{"a":1},0]},"countries":[]}`,
		"duplicate option":   `{"laws":{"g":[{"a":"x","a":"y"},0]},"countries":[]}`,
		"country not string": `{"laws":{},"countries":[1]}`,
		"duplicate group":    `{"laws":{"law_a":[{"x":"1"},0],"law_a":[{"y":"2"},1]},"countries":[]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDefaultState([]byte(doc))
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestDecodeCountryName(t *testing.T) {
	name, err := DecodeCountryName([]byte(`"Afghanistan"`))
	require.NoError(t, err)
	assert.Equal(t, "Afghanistan", name)

	_, err = DecodeCountryName([]byte(`{"name":"x"}`))
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_FetchesBothEndpoints(t *testing.T) {
	var mu sync.Mutex
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(RequestIDHeader))
		mu.Unlock()
		switch r.URL.Path {
		case DefaultStatePath:
			_, _ = w.Write([]byte(scenarioState))
		case CountryNamePrefix + "AFG":
			_, _ = w.Write([]byte(`"Afghanistan"`))
		default:
			_, _ = w.Write([]byte(`"N/A"`))
		}
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/", WithRequestIDs(func() string { return "req-1" }))
	require.NoError(t, err)
	assert.Equal(t, srv.URL, c.BaseURL())

	st, err := c.DefaultState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AFG"}, st.Countries)

	name, err := c.CountryName(context.Background(), "AFG")
	require.NoError(t, err)
	assert.Equal(t, "Afghanistan", name)

	name, err = c.CountryName(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "N/A", name)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"req-1", "req-1", "req-1"}, ids)
}

func TestClient_StatusAndTransportErrorsAreNetworkFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.DefaultState(context.Background())
	require.ErrorIs(t, err, ErrNetworkFailure)
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)

	srv.Close()
	_, err = c.CountryName(context.Background(), "AFG")
	require.ErrorIs(t, err, ErrNetworkFailure)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.DefaultState(ctx)
	require.ErrorIs(t, err, ErrNetworkFailure)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	for _, u := range []string{"", "  ", "ftp://example.com", "://nope"} {
		_, err := NewClient(u)
		assert.Error(t, err, "base %q", u)
	}
}
