package jobboard

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/intern-allocator/internal/logger"
	"github.com/spigell/intern-allocator/internal/matching"
	"github.com/spigell/intern-allocator/internal/utils"
)

const (
	userAgent = "spigell/intern-allocator (spigelly@gmail.com)"
	// Max value for search per page.
	perPage = "100"

	defaultBackoff = 500 * time.Millisecond
)

// Client talks to an external job-board API. It is only used by the
// extracted-resume fallback path; the primary matching path never leaves
// the local roster files.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// MaxRetries is the number of additional attempts for failed requests.
	MaxRetries int

	backoff time.Duration
}

func New(ctx context.Context, log *zap.Logger, apiURL, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    log,
		UserAgent: userAgent,
		backoff:   defaultBackoff,
	}
}

// SearchJobs implements matching.JobLookup: one skill keyword, an optional
// experience-level filter.
func (c *Client) SearchJobs(skill, experience string) ([]matching.JobRecord, error) {
	log := logger.WithBoardFields(c.logger, c.APIURL, experience)
	log.Debug("searching the job board", zap.String("skill", skill))

	ads, err := c.Search(&SearchParams{Skill: skill, Experience: experience})
	if err != nil {
		return nil, err
	}

	records := make([]matching.JobRecord, 0, ads.Len())
	titles := make([]string, 0, ads.Len())
	for _, ad := range ads.Items {
		records = append(records, matching.JobRecord{
			Company: ad.Company,
			Title:   ad.Title,
		})
		titles = append(titles, ad.Title)
	}

	log.Debug("search completed",
		zap.Int("ads", ads.Len()),
		zap.String("titles", utils.TruncateForLog(strings.Join(titles, ", "), 120)),
	)

	return records, nil
}
