package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/rs/zerolog/log"

	"TrendScreener/internal/model"
)

const defaultFMPBaseURL = "https://financialmodelingprep.com"

// FMPFetcher implements GainersFetcher using the financialmodelingprep REST API.
// Market caps are looked up through Caps, one symbol at a time.
type FMPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Caps    MarketCapFetcher
}

// NewFMPFetcher creates a new fetcher with optional proxy support.
func NewFMPFetcher(baseURL, apiKey, proxyURL string, caps MarketCapFetcher) *FMPFetcher {
	if baseURL == "" {
		baseURL = defaultFMPBaseURL
	}
	return &FMPFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		Caps:    caps,
	}
}

func (f *FMPFetcher) Name() string { return "fmp" }

// fmpGainer is the expected JSON shape from the gainers endpoint.
type fmpGainer struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
}

// FetchGainers returns the day's gainers sorted by market cap, largest first.
// A gainer whose market cap cannot be fetched is kept with a zero cap.
func (f *FMPFetcher) FetchGainers(ctx context.Context) ([]model.Company, error) {
	endpoint := fmt.Sprintf("%s/api/v3/stock_market/gainers?apikey=%s", f.BaseURL, url.QueryEscape(f.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch gainers: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch gainers: status %d, body: %s", resp.StatusCode, string(body))
	}
	var gainers []fmpGainer
	if err := json.NewDecoder(resp.Body).Decode(&gainers); err != nil {
		return nil, fmt.Errorf("decode gainers: %w", err)
	}

	companies := make([]model.Company, 0, len(gainers))
	for _, g := range gainers {
		if g.Symbol == "" {
			continue
		}
		c := model.Company{Ticker: g.Symbol, Name: g.Name, ChangePct: g.ChangesPercentage}
		if f.Caps != nil {
			mc, err := f.Caps.FetchMarketCap(ctx, g.Symbol)
			if err != nil {
				log.Warn().Str("ticker", g.Symbol).Err(err).Msg("market cap lookup failed")
			} else {
				c.MarketCap = mc
			}
		}
		companies = append(companies, c)
	}

	sort.SliceStable(companies, func(i, j int) bool { return companies[i].MarketCap > companies[j].MarketCap })
	return companies, nil
}
