package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/soluma/turntable/internal/modules/music/domain"
)

// TrackResolver defines the interface for turning a free-text or URL
// query into playable tracks. An empty TrackList means no results.
type TrackResolver interface {
	Resolve(
		ctx context.Context,
		query string,
		requester snowflake.ID,
	) (*domain.TrackList, error)
}
