package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"TrendScreener/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements SeriesFetcher and MarketCapFetcher using the
// Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. An empty baseURL
// selects the public endpoint.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	return &YahooFetcher{
		BaseURL: baseURL,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooQuote is the response structure from Yahoo Finance quote API.
type yahooQuote struct {
	QuoteResponse struct {
		Result []struct {
			Symbol    string   `json:"symbol"`
			MarketCap *float64 `json:"marketCap"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteResponse"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

func (f *YahooFetcher) get(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("yahoo: %w (status 404)", ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// FetchBars returns the bars of symbol for the given range and interval,
// oldest first. Bars with a null close (holidays, halts) are skipped.
func (f *YahooFetcher) FetchBars(ctx context.Context, symbol, period, interval string) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), url.QueryEscape(interval), url.QueryEscape(period))

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		// Yahoo answers unknown symbols with 404 and a chart.error body.
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
		}
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrSymbolNotFound, symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: no data returned for %s", ErrSymbolNotFound, symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no quote data for %s", ErrSymbolNotFound, symbol)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  *quote.Close[i],
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// FetchMarketCap returns the market capitalization of symbol.
func (f *YahooFetcher) FetchMarketCap(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", f.BaseURL, url.QueryEscape(f.yahooSymbol(symbol)))

	var quote yahooQuote
	if err := f.get(ctx, u, &quote); err != nil {
		return 0, err
	}
	if quote.QuoteResponse.Error != nil {
		return 0, fmt.Errorf("yahoo api error: %s", quote.QuoteResponse.Error.Description)
	}
	for _, r := range quote.QuoteResponse.Result {
		if r.MarketCap != nil {
			return *r.MarketCap, nil
		}
	}
	return 0, fmt.Errorf("yahoo: no market cap for %s", symbol)
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
