package gallery

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"sync"

	"trafficctl/internal/logging"
	"trafficctl/internal/services/traffic"
)

// Kind classifies an example asset by its media file extension.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".webm": {},
}

// Classify returns the media kind for an asset path. Anything outside the
// video extension allow-list renders as an image.
func Classify(assetPath string) Kind {
	ext := strings.ToLower(path.Ext(assetPath))
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	return KindImage
}

// Item is an example asset with its resolved media kind.
type Item struct {
	traffic.ExampleAsset
	Kind Kind
}

// API is the subset of the traffic client the gallery needs.
type API interface {
	ListExampleAssets(ctx context.Context) ([]traffic.ExampleAsset, error)
	IncrementAssetView(ctx context.Context, id int64) error
}

// Service lists example assets and records views. View counts are bumped
// optimistically; the server call is best effort and its failure only
// lands in the log.
type Service struct {
	api           API
	logger        *slog.Logger
	playbackSpeed float64

	mu    sync.Mutex
	items []Item
}

// NewService builds a gallery service. playbackSpeed is the local video
// playback rate preference.
func NewService(api API, logger *slog.Logger, playbackSpeed float64) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	if playbackSpeed <= 0 {
		playbackSpeed = 0.5
	}
	return &Service{api: api, logger: logger, playbackSpeed: playbackSpeed}
}

// PlaybackSpeed returns the configured video playback rate.
func (s *Service) PlaybackSpeed() float64 {
	return s.playbackSpeed
}

// SetPlaybackSpeed overrides the playback rate. Non-positive values are
// ignored.
func (s *Service) SetPlaybackSpeed(speed float64) {
	if speed > 0 {
		s.playbackSpeed = speed
	}
}

// List fetches and classifies the example assets.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	assets, err := s.api.ListExampleAssets(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(assets))
	for _, asset := range assets {
		items = append(items, Item{ExampleAsset: asset, Kind: Classify(asset.VideoPath)})
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return items, nil
}

// Items returns the last listed assets.
func (s *Service) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// RecordView bumps the local view count immediately and reports the view
// to the server in the background. The returned count reflects the
// optimistic local value regardless of the server call outcome.
func (s *Service) RecordView(ctx context.Context, id int64) int64 {
	s.mu.Lock()
	var count int64
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].ViewsCount++
			count = s.items[i].ViewsCount
			break
		}
	}
	s.mu.Unlock()

	if err := s.api.IncrementAssetView(ctx, id); err != nil {
		s.logger.Debug("view increment failed", "asset_id", id, "error", err)
	}
	return count
}
