package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Ardalan81/elyassi-exchange/internal/cache"
	"github.com/Ardalan81/elyassi-exchange/internal/models"
)

// LocalCurrency is the currency the office trades against.
const LocalCurrency = "IRR"

type Quote struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

type QuoteSet struct {
	UpdatedAt int64   `json:"updatedAt"`
	Rates     []Quote `json:"rates"`
}

// Quoter fetches an upstream mid-market snapshot and derives buy/sell
// prices. Computed sets are cached per request variant so the shortlist and
// show-all views never thrash each other.
type Quoter struct {
	apiURL     string
	httpClient *http.Client
	cache      cache.Cache
	ttl        time.Duration
}

func NewQuoter(apiURL string, c cache.Cache, ttl time.Duration) *Quoter {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Quoter{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 8 * time.Second},
		cache:      c,
		ttl:        ttl,
	}
}

type upstreamResponse struct {
	Rates              map[string]float64 `json:"rates"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
}

// Quotes returns buy/sell prices for the default shortlist, or for every
// upstream currency when showAll is set. A missing local-currency rate
// yields an empty set, not an error.
func (q *Quoter) Quotes(ctx context.Context, showAll bool, settings models.Settings) (QuoteSet, error) {
	key := "rates:default"
	if showAll {
		key = "rates:all"
	}
	if cached, ok, err := q.cache.Get(ctx, key); err == nil && ok {
		var set QuoteSet
		if err := json.Unmarshal(cached, &set); err == nil {
			return set, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.apiURL, nil)
	if err != nil {
		return QuoteSet{}, err
	}
	resp, err := q.httpClient.Do(req)
	if err != nil {
		return QuoteSet{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return QuoteSet{}, fmt.Errorf("rates api: unexpected status %d", resp.StatusCode)
	}

	var upstream upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return QuoteSet{}, err
	}

	localRate := upstream.Rates[LocalCurrency]
	if localRate == 0 {
		return QuoteSet{UpdatedAt: time.Now().UnixMilli(), Rates: []Quote{}}, nil
	}

	codes := defaultCurrencies
	if showAll {
		codes = make([]string, 0, len(upstream.Rates))
		for code := range upstream.Rates {
			codes = append(codes, code)
		}
	}

	quotes := make([]Quote, 0, len(codes))
	for _, code := range codes {
		rate := upstream.Rates[code]
		if code == LocalCurrency || rate == 0 {
			continue
		}
		mid := localRate / rate
		quotes = append(quotes, Quote{
			Code: code,
			Name: currencyName(code),
			Buy:  mid * (1 - settings.BuyMargin),
			Sell: mid * (1 + settings.SellMargin),
		})
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Code < quotes[j].Code })

	updatedAt := time.Now().UnixMilli()
	if upstream.TimeLastUpdateUnix > 0 {
		updatedAt = upstream.TimeLastUpdateUnix * 1000
	}

	set := QuoteSet{UpdatedAt: updatedAt, Rates: quotes}
	if payload, err := json.Marshal(set); err == nil {
		_ = q.cache.Set(ctx, key, payload, q.ttl)
	}
	return set, nil
}
