package traffic

import (
	"context"
	"fmt"
	"net/http"
)

// ExampleAsset is a sample output listed in the gallery.
type ExampleAsset struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	VideoPath     string `json:"video_path"`
	ThumbnailPath string `json:"thumbnail_path"`
	ViewsCount    int64  `json:"views_count"`
}

// ListExampleAssets lists the gallery's sample outputs.
func (c *Client) ListExampleAssets(ctx context.Context) ([]ExampleAsset, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/example-videos/", nil, true)
	if err != nil {
		return nil, err
	}
	var assets []ExampleAsset
	if err := c.doJSON(req, &assets); err != nil {
		return nil, fmt.Errorf("fetch example videos: %w", err)
	}
	return assets, nil
}

// IncrementAssetView bumps an asset's view counter.
func (c *Client) IncrementAssetView(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/example-videos/%d/view/", id), nil, true)
	if err != nil {
		return err
	}
	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}
