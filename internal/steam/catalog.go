package steam

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/models"
)

// SteamSpyApp returns catalog data for an app. Responses are cached by appId.
func (c *Client) SteamSpyApp(ctx context.Context, appID int) (*models.SteamSpyApp, error) {
	return cache.GetOrLoad(ctx, c.cache, cache.SteamSpyKey(appID), cache.CatalogTTL, func(ctx context.Context) (*models.SteamSpyApp, error) {
		params := url.Values{}
		params.Set("request", "appdetails")
		params.Set("appid", strconv.Itoa(appID))
		return doRequest[models.SteamSpyApp](ctx, c, "steamspy_appdetails", c.cfg.SpyBaseURL+"?"+params.Encode())
	})
}

type storeAppDetails struct {
	Success bool `json:"success"`
	Data    struct {
		IsFree bool `json:"is_free"`
		Genres []struct {
			Description string `json:"description"`
		} `json:"genres"`
		PriceOverview *struct {
			Final int64 `json:"final"`
		} `json:"price_overview"`
	} `json:"data"`
}

// StoreApp returns store genres and current price for an app. An app the
// store does not know yields an empty StoreApp, which is cached too.
func (c *Client) StoreApp(ctx context.Context, appID int) (*models.StoreApp, error) {
	return cache.GetOrLoad(ctx, c.cache, cache.StoreKey(appID), cache.CatalogTTL, func(ctx context.Context) (*models.StoreApp, error) {
		params := url.Values{}
		params.Set("appids", strconv.Itoa(appID))
		params.Set("l", "english")
		data, err := doRequest[map[string]storeAppDetails](ctx, c, "store_appdetails", c.cfg.StoreBaseURL+"/appdetails?"+params.Encode())
		if err != nil {
			return nil, err
		}

		app := &models.StoreApp{Genres: []string{}}
		details, ok := (*data)[strconv.Itoa(appID)]
		if !ok || !details.Success {
			return app, nil
		}
		for _, g := range details.Data.Genres {
			app.Genres = append(app.Genres, g.Description)
		}
		app.IsFree = details.Data.IsFree
		if po := details.Data.PriceOverview; po != nil {
			price := decimal.New(po.Final, -2)
			app.Price = &price
		}
		return app, nil
	})
}

// SpyPrice parses SteamSpy's initial price, given in cents as a string.
// Zero, negative and unparseable prices yield nil.
func SpyPrice(app *models.SteamSpyApp) *decimal.Decimal {
	if app == nil || app.InitialPrice == "" {
		return nil
	}
	cents, err := strconv.ParseInt(app.InitialPrice, 10, 64)
	if err != nil || cents <= 0 {
		return nil
	}
	price := decimal.New(cents, -2)
	return &price
}
