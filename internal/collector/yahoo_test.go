package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1700086400,1700000000,1700172800,1700259200],
"indicators":{"quote":[{"open":[2,1,null,4],"high":[2,1,null,4],"low":[2,1,null,4],
"close":[2.5,1.5,null,4.5],"volume":[10,20,null,40]}]}}],"error":null}}`

func TestYahooFetcher_FetchBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "")
	bars, err := f.FetchBars(context.Background(), "SPX", "1mo", "1d")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Equal(t, "interval=1d&range=1mo", gotQuery)
	require.Len(t, bars, 3)
	assert.Equal(t, 1.5, bars[0].Close)
	assert.Equal(t, 2.5, bars[1].Close)
	assert.Equal(t, 4.5, bars[2].Close)
	assert.Equal(t, 40.0, bars[2].Volume)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, "").FetchBars(context.Background(), "ZZZZ", "1mo", "1d")
	assert.ErrorContains(t, err, "delisted")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestYahooFetcher_UnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, "").FetchBars(context.Background(), "ZZZZ", "1mo", "1d")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
	assert.ErrorContains(t, err, "ZZZZ")
}

func TestYahooFetcher_EmptyChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, "").FetchBars(context.Background(), "ZZZZ", "1mo", "1d")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestYahooFetcher_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, "").FetchBars(context.Background(), "AAPL", "1mo", "1d")
	assert.ErrorContains(t, err, "status 429")
	assert.NotErrorIs(t, err, ErrSymbolNotFound)
}

func TestYahooFetcher_FetchMarketCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbols"))
		w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"AAPL","marketCap":3500000000000}],"error":null}}`))
	}))
	defer srv.Close()

	mc, err := NewYahooFetcher(srv.URL, "").FetchMarketCap(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 3.5e12, mc)
}

func TestYahooFetcher_FetchMarketCapMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"XYZ"}],"error":null}}`))
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, "").FetchMarketCap(context.Background(), "XYZ")
	assert.Error(t, err)
}
