// Package ebay talks to the eBay Finding API on behalf of the search proxy
// endpoint, applying the storefront's fixed listing filters and flattening
// the API's array-wrapped response shape.
package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/Tiger884/retro-pc-store/internal/config"
	"github.com/Tiger884/retro-pc-store/internal/models"
	"github.com/Tiger884/retro-pc-store/pkg/util"
)

const maxTitleLength = 60

// Item is the trimmed listing shape the proxy serves to the storefront.
type Item struct {
	Title        string `json:"title"`
	GalleryURL   string `json:"galleryURL,omitempty"`
	ViewItemURL  string `json:"viewItemURL"`
	CurrentPrice string `json:"currentPrice"`
	Location     string `json:"location"`
	Condition    string `json:"condition"`
}

type Client interface {
	FindItems(ctx context.Context, keywords string) ([]Item, error)
}

type client struct {
	http     *resty.Client
	baseURL  string
	appID    string
	entries  int
	minPrice int
}

func NewClient(cfg *config.Config) Client {
	return &client{
		http:     util.NewRestyClient(cfg.EBay.Timeout),
		baseURL:  cfg.EBay.BaseURL,
		appID:    cfg.EBay.AppID,
		entries:  cfg.EBay.EntriesPerPage,
		minPrice: cfg.EBay.MinPrice,
	}
}

// Finding API responses wrap every field in a single-element array.
type findingResponse struct {
	FindItemsByKeywordsResponse []struct {
		SearchResult []searchResult `json:"searchResult"`
	} `json:"findItemsByKeywordsResponse"`
}

type searchResult struct {
	Count string    `json:"@count"`
	Item  []rawItem `json:"item"`
}

type rawItem struct {
	Title         []string `json:"title"`
	GalleryURL    []string `json:"galleryURL"`
	ViewItemURL   []string `json:"viewItemURL"`
	Location      []string `json:"location"`
	SellingStatus []struct {
		CurrentPrice []struct {
			CurrencyID string `json:"@currencyId"`
			Value      string `json:"__value__"`
		} `json:"currentPrice"`
	} `json:"sellingStatus"`
	Condition []struct {
		ConditionDisplayName []string `json:"conditionDisplayName"`
	} `json:"condition"`
}

func (c *client) FindItems(ctx context.Context, keywords string) ([]Item, error) {
	if c.appID == "" {
		return nil, &models.ConfigError{Missing: "EBAY_APP_ID"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", "Retro-PC-Store/1.0").
		SetQueryParamsFromValues(c.query(keywords)).
		Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &models.NetworkError{StatusCode: resp.StatusCode()}
	}

	var payload findingResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &models.ProtocolError{Reason: "malformed finding response"}
	}
	if len(payload.FindItemsByKeywordsResponse) == 0 ||
		len(payload.FindItemsByKeywordsResponse[0].SearchResult) == 0 {
		return nil, &models.ProtocolError{Reason: "searchResult field missing"}
	}

	result := payload.FindItemsByKeywordsResponse[0].SearchResult[0]
	if result.Count == "0" || len(result.Item) == 0 {
		return []Item{}, nil
	}

	return util.ConvertList(result.Item, mapItem), nil
}

// query builds the Finding API parameter set with the storefront's fixed
// filters: used condition, fixed price or auction with buy-it-now, and a
// minimum price floor.
func (c *client) query(keywords string) url.Values {
	params := url.Values{}
	params.Set("OPERATION-NAME", "findItemsByKeywords")
	params.Set("SERVICE-VERSION", "1.0.0")
	params.Set("SECURITY-APPNAME", c.appID)
	params.Set("RESPONSE-DATA-FORMAT", "JSON")
	params.Set("REST-PAYLOAD", "")
	params.Set("keywords", keywords)
	params.Set("paginationInput.entriesPerPage", strconv.Itoa(c.entries))
	params.Set("sortOrder", "PricePlusShipping")
	params.Set("itemFilter(0).name", "Condition")
	params.Set("itemFilter(0).value", "Used")
	params.Set("itemFilter(1).name", "ListingType")
	params.Set("itemFilter(1).value(0)", "FixedPrice")
	params.Set("itemFilter(1).value(1)", "AuctionWithBIN")
	params.Set("itemFilter(2).name", "MinPrice")
	params.Set("itemFilter(2).value", strconv.Itoa(c.minPrice))
	params.Set("itemFilter(2).paramName", "Currency")
	params.Set("itemFilter(2).paramValue", "USD")
	return params
}

func mapItem(raw rawItem) Item {
	item := Item{
		Title:        truncateTitle(first(raw.Title, "Unknown Item")),
		GalleryURL:   first(raw.GalleryURL, ""),
		ViewItemURL:  first(raw.ViewItemURL, "#"),
		CurrentPrice: "N/A",
		Location:     first(raw.Location, "Unknown"),
		Condition:    "Used",
	}

	if len(raw.SellingStatus) > 0 && len(raw.SellingStatus[0].CurrentPrice) > 0 {
		price := raw.SellingStatus[0].CurrentPrice[0]
		currency := price.CurrencyID
		if currency == "" {
			currency = "USD"
		}
		value, err := strconv.ParseFloat(price.Value, 64)
		if err != nil {
			value = 0
		}
		item.CurrentPrice = fmt.Sprintf("%s %.2f", currency, value)
	}

	if len(raw.Condition) > 0 {
		if name := first(raw.Condition[0].ConditionDisplayName, ""); name != "" {
			item.Condition = name
		}
	}

	return item
}

func first(values []string, fallback string) string {
	if len(values) > 0 && values[0] != "" {
		return values[0]
	}
	return fallback
}

func truncateTitle(title string) string {
	if len(title) <= maxTitleLength {
		return title
	}
	return title[:maxTitleLength-3] + "..."
}
