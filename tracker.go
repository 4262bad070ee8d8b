package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aquilax/guestbook/comment"
	"github.com/aquilax/guestbook/request"
)

// geoResponse is the IP lookup shape. Both fields holding "-" marks a
// private or unroutable address.
type geoResponse struct {
	CityName   string `json:"cityName"`
	RegionName string `json:"regionName"`
}

func (g *geoResponse) Validate() error {
	if g.CityName == "" && g.RegionName == "" {
		return fmt.Errorf("geo lookup returned no location fields")
	}
	return nil
}

// Tracker decorates rendered comments with best-effort IP geolocation.
// Lookups for one page run concurrently and are awaited as a batch;
// results arriving after the context was cancelled are discarded, so a
// superseded refresh never patches fresh markup.
type Tracker struct {
	client   *request.Client
	renderer Renderer
	baseURL  string
}

func NewTracker(client *request.Client, renderer Renderer, baseURL string) *Tracker {
	return &Tracker{
		client:   client,
		renderer: renderer,
		baseURL:  baseURL,
	}
}

// Track walks every comment and its descendants, issuing one cached
// and retried lookup per eligible node. A failed lookup renders its
// error text in place of a location and never propagates.
func (t *Tracker) Track(ctx context.Context, lists []*comment.Comment) {
	var wg sync.WaitGroup
	t.walk(ctx, &wg, lists)
	wg.Wait()
}

func (t *Tracker) walk(ctx context.Context, wg *sync.WaitGroup, lists []*comment.Comment) {
	for _, c := range lists {
		t.walk(ctx, wg, c.Comments)

		if c.IP == "" || c.UserAgent == "" || c.IsAdmin {
			continue
		}
		node := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.lookup(ctx, node)
		}()
	}
}

func (t *Tracker) lookup(ctx context.Context, c *comment.Comment) {
	var res geoResponse
	err := t.client.NewRequest(http.MethodGet, t.baseURL+"/"+c.IP).
		WithCache().
		WithRetry().
		Send(ctx, &res)

	var result string
	switch {
	case err != nil:
		result = err.Error()
	case res.CityName == "-" && res.RegionName == "-":
		result = "localhost"
	default:
		result = res.CityName + " - " + res.RegionName
	}

	if ctx.Err() != nil {
		return
	}
	t.renderer.SetLocation(c.UUID, result)
}
