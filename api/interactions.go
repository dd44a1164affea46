package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/reelfeed/reelfeed/feed"
	"github.com/tidwall/gjson"
)

// Kind names an interaction endpoint.
type Kind string

const (
	KindLike    Kind = "like"
	KindUnlike  Kind = "unlike"
	KindReshare Kind = "reshare"
	KindComment Kind = "comment"
	KindGift    Kind = "gift"
)

// Interaction is a single user action on a video. It is also the record
// persisted when the request has to be retried later.
type Interaction struct {
	Kind    Kind      `json:"kind"`
	VideoID string    `json:"video_id"`
	Text    string    `json:"text,omitempty"`
	Amount  float64   `json:"amount,omitempty"`
	At      time.Time `json:"at"`
}

func (in Interaction) payload() map[string]any {
	body := map[string]any{"videoId": in.VideoID}

	switch in.Kind {
	case KindComment:
		body["comment"] = in.Text
	case KindGift:
		body["amount"] = in.Amount
	}

	return body
}

// Send posts the interaction and returns the counters from the response.
// Counters the server did not return are negative.
func (c *Client) Send(ctx context.Context, in Interaction) (feed.Counters, error) {
	switch in.Kind {
	case KindLike, KindUnlike, KindReshare, KindComment, KindGift:
	default:
		return feed.Counters{}, fmt.Errorf("unknown interaction %q", in.Kind)
	}

	if in.VideoID == "" {
		return feed.Counters{}, fmt.Errorf("%s: missing video id", in.Kind)
	}

	body, err := c.do(ctx, "POST", "/videos/"+string(in.Kind), nil, in.payload())
	if err != nil {
		return feed.Counters{}, err
	}

	if data := body.Get("data"); data.IsObject() {
		body = data
	}

	return decodeCounters(body), nil
}

func (c *Client) Like(ctx context.Context, videoID string) (feed.Counters, error) {
	return c.Send(ctx, Interaction{Kind: KindLike, VideoID: videoID})
}

func (c *Client) Unlike(ctx context.Context, videoID string) (feed.Counters, error) {
	return c.Send(ctx, Interaction{Kind: KindUnlike, VideoID: videoID})
}

func (c *Client) Reshare(ctx context.Context, videoID string) (feed.Counters, error) {
	return c.Send(ctx, Interaction{Kind: KindReshare, VideoID: videoID})
}

func (c *Client) Comment(ctx context.Context, videoID, text string) (feed.Counters, error) {
	return c.Send(ctx, Interaction{Kind: KindComment, VideoID: videoID, Text: text})
}

func (c *Client) Gift(ctx context.Context, videoID string, amount float64) (feed.Counters, error) {
	return c.Send(ctx, Interaction{Kind: KindGift, VideoID: videoID, Amount: amount})
}

// CommentEntry is one entry of a video's comment thread.
type CommentEntry struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created"`
}

// Comments lists the comments of a video, newest first as served.
func (c *Client) Comments(ctx context.Context, videoID string) ([]CommentEntry, error) {
	path := "/videos/" + url.PathEscape(videoID) + "/comments"

	body, err := c.do(ctx, "GET", path, nil, nil)
	if err != nil {
		return nil, err
	}

	list, err := envelope(body, "data", "comments")
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}

	var out []CommentEntry
	list.ForEach(func(_, v gjson.Result) bool {
		created, _ := time.Parse(time.RFC3339, first(v, "createdAt", "created").String())
		out = append(out, CommentEntry{
			ID:       first(v, "id", "_id").String(),
			Username: first(v, "user.username", "username").String(),
			Text:     first(v, "comment", "text").String(),
			Created:  created,
		})
		return true
	})

	return out, nil
}

// Community is a group that has its own video feed.
type Community struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Members     int    `json:"members"`
}

func (c *Client) Communities(ctx context.Context) ([]Community, error) {
	body, err := c.do(ctx, "GET", "/communities", nil, nil)
	if err != nil {
		return nil, err
	}

	list, err := envelope(body, "data", "communities")
	if err != nil {
		return nil, fmt.Errorf("GET /communities: %w", err)
	}

	var out []Community
	list.ForEach(func(_, v gjson.Result) bool {
		id := first(v, "id", "_id").String()
		if id == "" {
			return true
		}
		out = append(out, Community{
			ID:          id,
			Name:        v.Get("name").String(),
			Description: first(v, "description", "bio").String(),
			Members:     max(count(v, "members", "membersCount"), 0),
		})
		return true
	})

	return out, nil
}
