// Package publish writes emissions to Redis streams, one stream per match.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
)

// DefaultMaxLen caps each stream, approximately.
const DefaultMaxLen = 10000

// StreamKey is the stream an emission for matchID is written to.
func StreamKey(matchID string) string {
	return fmt.Sprintf("matches.updates.%s", matchID)
}

// Adder is the slice of the Redis client the publisher needs.
// Implemented by *redis.Client.
type Adder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher is an engine.Sink that appends emissions to Redis streams.
type StreamPublisher struct {
	client Adder
	maxLen int64
}

// NewStreamPublisher creates a publisher over client.
func NewStreamPublisher(client Adder) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		maxLen: DefaultMaxLen,
	}
}

// Publish implements engine.Sink.
func (p *StreamPublisher) Publish(ctx context.Context, e engine.Emission) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling emission: %w", err)
	}

	values := map[string]interface{}{
		"data":     string(data),
		"kind":     string(e.Kind),
		"match_id": e.MatchID,
		"seq":      strconv.FormatInt(e.Seq, 10),
	}
	if e.Snapshot != nil {
		values["status"] = string(e.Snapshot.Status)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey(e.MatchID),
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("publishing %s for match %s: %w", e.Kind, e.MatchID, err)
	}
	return nil
}

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}
