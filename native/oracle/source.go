package oracle

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PriceSource resolves the raw price update for a feed identifier. The
// returned update is untrusted until it passes the Validator.
type PriceSource interface {
	GetPrice(feed string) (*PriceUpdate, error)
}

// ManualSource provides an in-memory source used for tests and manual
// overrides during incident response.
type ManualSource struct {
	mu      sync.RWMutex
	updates map[string]PriceUpdate
}

// NewManualSource constructs an empty manual source.
func NewManualSource() *ManualSource {
	return &ManualSource{updates: make(map[string]PriceUpdate)}
}

// Set stores the update returned for the feed identifier.
func (m *ManualSource) Set(feed string, update PriceUpdate) {
	if m == nil {
		return
	}
	key := strings.TrimSpace(feed)
	if key == "" {
		return
	}
	m.mu.Lock()
	clone := PriceUpdate{Feeds: append([]PriceObservation{}, update.Feeds...)}
	m.updates[key] = clone
	m.mu.Unlock()
}

// GetPrice retrieves the stored update for the feed identifier.
func (m *ManualSource) GetPrice(feed string) (*PriceUpdate, error) {
	if m == nil {
		return nil, fmt.Errorf("manual source not configured")
	}
	m.mu.RLock()
	stored, ok := m.updates[strings.TrimSpace(feed)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("manual source: update for %q not found", feed)
	}
	clone := PriceUpdate{Feeds: append([]PriceObservation{}, stored.Feeds...)}
	return &clone, nil
}

// HTTPDoer abstracts http.Client for ease of testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const defaultHermesEndpoint = "https://hermes.pyth.network/v2/updates/price/latest"

// HermesSource fetches price updates from a Pyth Hermes endpoint.
type HermesSource struct {
	client   HTTPDoer
	endpoint string
}

// NewHermesSource constructs a Hermes adapter. When the client is nil
// http.DefaultClient is used.
func NewHermesSource(client HTTPDoer, endpoint string) *HermesSource {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = defaultHermesEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HermesSource{client: client, endpoint: ep}
}

func (s *HermesSource) GetPrice(feed string) (*PriceUpdate, error) {
	if s == nil {
		return nil, fmt.Errorf("hermes source not configured")
	}
	id := strings.TrimSpace(feed)
	if id == "" {
		return nil, fmt.Errorf("hermes source: feed id required")
	}
	req, err := http.NewRequest(http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, err
	}
	values := url.Values{}
	values.Set("ids[]", id)
	req.URL.RawQuery = values.Encode()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("hermes source: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var payload struct {
		Parsed []struct {
			Price struct {
				Price       string `json:"price"`
				Conf        string `json:"conf"`
				Expo        int32  `json:"expo"`
				PublishTime int64  `json:"publish_time"`
			} `json:"price"`
		} `json:"parsed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("hermes source: decode: %w", err)
	}
	update := &PriceUpdate{Feeds: make([]PriceObservation, 0, len(payload.Parsed))}
	for _, entry := range payload.Parsed {
		price, err := strconv.ParseInt(strings.TrimSpace(entry.Price.Price), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("hermes source: invalid price %q", entry.Price.Price)
		}
		conf, err := strconv.ParseUint(strings.TrimSpace(entry.Price.Conf), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("hermes source: invalid conf %q", entry.Price.Conf)
		}
		update.Feeds = append(update.Feeds, PriceObservation{
			Price:       price,
			Conf:        conf,
			Expo:        entry.Price.Expo,
			PublishTime: entry.Price.PublishTime,
		})
	}
	return update, nil
}

// StaticObservation builds a single-feed update timestamped now. Test helper
// mirroring the fixed-price stub the mock oracle used; production paths always
// validate the result.
func StaticObservation(price int64, conf uint64, now time.Time) *PriceUpdate {
	return &PriceUpdate{Feeds: []PriceObservation{{
		Price:       price,
		Conf:        conf,
		Expo:        0,
		PublishTime: now.Unix(),
	}}}
}
