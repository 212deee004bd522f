package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"memories/config"

	"github.com/google/uuid"
	"resty.dev/v3"
)

// PhotoSearchResult is one hit returned by the photo search service. It
// carries enough context to join the hit back to its memory and post.
type PhotoSearchResult struct {
	MemoryID        uuid.UUID `json:"memoryId"`
	PhotoID         uuid.UUID `json:"photoId"`
	PostID          uuid.UUID `json:"postId"`
	PublisherUserID uuid.UUID `json:"publisherUserId"`
	CreatedAt       time.Time `json:"createdAt"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
}

type Client struct {
	client  *resty.Client
	baseURL string
}

var instance *Client

func Init() {
	instance = NewClient(config.SEARCH_API_URL)
}

func Get() *Client {
	return instance
}

func NewClient(baseURL string) *Client {
	client := resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         5 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	})
	return &Client{client: client, baseURL: baseURL}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// SearchImages queries the photo search service for images in the given
// group matching the query text and, optionally, the given participants.
func (c *Client) SearchImages(ctx context.Context, groupID uuid.UUID, query string, participantIDs []uuid.UUID, limit, offset int) ([]PhotoSearchResult, error) {
	type results struct {
		Results []PhotoSearchResult `json:"results"`
	}

	params := url.Values{
		"groupId": {groupID.String()},
		"query":   {query},
		"limit":   {strconv.Itoa(limit)},
		"offset":  {strconv.Itoa(offset)},
	}
	for _, id := range participantIDs {
		params.Add("participantIds", id.String())
	}

	res, err := c.client.R().WithContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&results{}).
		Get(c.baseURL + "/search/images")
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("search service returned status %d", res.StatusCode())
	}
	return res.Result().(*results).Results, nil
}
