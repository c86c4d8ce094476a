package jobboard

import (
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"
)

const (
	SearchPath = "/jobs"
)

type SearchParams struct {
	Skill      string
	Experience string
	PerPage    string
}

type JobAds struct {
	Items []*JobAd
}

type JobAd struct {
	Company    string `json:"company,omitempty"`
	Title      string `json:"title,omitempty"`
	Location   string `json:"location,omitempty"`
	Experience string `json:"experience,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Search queries the board for postings matching a single skill keyword.
func (c *Client) Search(params *SearchParams) (*JobAds, error) {
	var ads []*JobAd

	// Set per_page max as possible. It should be faster.
	if params.PerPage == "" {
		params.PerPage = perPage
	}

	q := url.Values{}
	q.Set("skill", params.Skill)
	q.Set("per_page", params.PerPage)
	if params.Experience != "" {
		q.Set("experience", params.Experience)
	}

	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	items, err := c.GetItems(apiURLSearch, q)
	if err != nil {
		return nil, err
	}

	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &ads,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, err
	}

	return &JobAds{
		Items: ads,
	}, nil
}

func (a *JobAds) Len() int {
	return len(a.Items)
}
