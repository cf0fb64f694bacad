package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"golang.org/x/exp/slices"
)

type ListProjectVersionQuery struct {
	Loaders      []string `json:"loaders,omitempty"`
	GameVersions []string `json:"game_versions,omitempty"`
	Featured     *bool    `json:"featured,omitempty"`
}

// String encodes the filters the way the api expects them: json arrays in the query
func (l *ListProjectVersionQuery) String() string {
	values := url.Values{}
	if l.Loaders != nil {
		raw, _ := json.Marshal(l.Loaders)
		values.Add("loaders", string(raw))
	}
	if l.GameVersions != nil {
		raw, _ := json.Marshal(l.GameVersions)
		values.Add("game_versions", string(raw))
	}
	if l.Featured != nil {
		values.Add("featured", fmt.Sprintf("%t", *l.Featured))
	}
	return values.Encode()
}

// ListProjectVersion returns the versions of a project, newest first.
// `query` can be used to pre filter the results. Pass nil to not filter.
func (c *Client) ListProjectVersion(ctx context.Context, idOrSlug string, query *ListProjectVersionQuery) ([]Version, error) {
	if idOrSlug == "" {
		return nil, ErrInvalidProjectIDOrSlug
	}
	reqURL := c.url("v2/project", idOrSlug, "version")

	if query != nil {
		reqURL.RawQuery = query.String()
	}

	res, err := c.get(ctx, reqURL.String())
	if err != nil {
		return nil, err
	}

	var result []Version
	if err = decode(res, &result); err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b Version) bool {
		return a.DatePublished.After(b.DatePublished)
	})
	return result, nil
}
