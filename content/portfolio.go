package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dvh-sh/folio/internal/logger"
	"github.com/dvh-sh/folio/internal/metrics"
)

// DefaultPortfolioURL is where portfolio.json is published.
const DefaultPortfolioURL = "https://raw.githubusercontent.com/dvh-sh/.github/main/portfolio.json"

// PortfolioTTL is how long a fetched portfolio is served before refetching.
const PortfolioTTL = 5 * time.Minute

var reTrailingComma = regexp.MustCompile(`,\s*([\]}])`)

type Profile struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Location string `json:"location"`
}

type Experience struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Type        string   `json:"type"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

type Position struct {
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	Technologies     []string `json:"technologies"`
	Link             string   `json:"link"`
	Date             string   `json:"date"`
	PositionTitle    string   `json:"positionTitle"`
}

type Work struct {
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	Technologies     []string `json:"technologies"`
	Link             string   `json:"link"`
	Date             string   `json:"date"`
}

type RecentWork struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Metrics     string   `json:"metrics"`
}

type Education struct {
	School   string `json:"school"`
	Degree   string `json:"degree"`
	Dates    string `json:"dates"`
	Expected bool   `json:"expected,omitempty"`
}

type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	DemoLink     string   `json:"demoLink,omitempty"`
	SourceLink   string   `json:"sourceLink,omitempty"`
	SourceLinks  []string `json:"sourceLinks,omitempty"`
}

// Links returns every source link of the project, single link first.
func (p Project) Links() []string {
	var out []string
	if p.SourceLink != "" {
		out = append(out, p.SourceLink)
	}
	for _, l := range p.SourceLinks {
		if l != "" && l != p.SourceLink {
			out = append(out, l)
		}
	}
	return out
}

// Software is a recommended tool.
type Software struct {
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	Link            string `json:"link" yaml:"link"`
	Price           string `json:"price" yaml:"price"`
	OperatingSystem string `json:"operatingSystem" yaml:"operatingSystem"`
	BrewInstall     string `json:"brewInstall,omitempty" yaml:"brewInstall,omitempty"`
}

type Skills struct {
	ProgrammingLanguages []string `json:"programmingLanguages"`
	Frameworks           []string `json:"frameworks"`
	Tools                []string `json:"tools"`
	Cloud                []string `json:"cloud"`
}

// Portfolio is the single document that drives the home page.
type Portfolio struct {
	Keywords   []string              `json:"keywords"`
	Profile    Profile               `json:"profile"`
	About      string                `json:"about"`
	Experience []Experience          `json:"experience"`
	Positions  []Position            `json:"positions"`
	RecentWork []RecentWork          `json:"recentWork"`
	Works      []Work                `json:"works"`
	Education  []Education           `json:"education"`
	Projects   []Project             `json:"projects"`
	Skills     Skills                `json:"skills"`
	Software   map[string][]Software `json:"software"`
}

// ParsePortfolio decodes portfolio JSON, tolerating trailing commas.
func ParsePortfolio(data []byte) (Portfolio, error) {
	cleaned := reTrailingComma.ReplaceAll(data, []byte("$1"))
	var p Portfolio
	if err := json.Unmarshal(cleaned, &p); err != nil {
		return Portfolio{}, fmt.Errorf("decode portfolio: %w", err)
	}
	return p, nil
}

// PortfolioFetcher fetches portfolio.json and caches it for TTL. Once a
// good value exists, expired reads return it at once and refresh in the
// background. A failed fetch is not retried for FailureTTL.
type PortfolioFetcher struct {
	URL        string
	Client     *http.Client
	TTL        time.Duration
	FailureTTL time.Duration
	Metrics    metrics.Recorder

	refreshes singleflight.Group

	mu       sync.RWMutex
	last     *Portfolio
	fetched  time.Time
	failedAt time.Time
}

// NewPortfolioFetcher creates a fetcher with the default TTLs.
func NewPortfolioFetcher(url string, client *http.Client, rec metrics.Recorder) *PortfolioFetcher {
	if url == "" {
		url = DefaultPortfolioURL
	}
	if client == nil {
		client = NewHTTPClient(10 * time.Second)
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &PortfolioFetcher{
		URL:        url,
		Client:     client,
		TTL:        PortfolioTTL,
		FailureTTL: DefaultFailureTTL,
		Metrics:    rec,
	}
}

// Get returns the cached portfolio, refetching once the TTL has passed.
// On failure it returns the last good value, or an empty portfolio.
func (f *PortfolioFetcher) Get(ctx context.Context) Portfolio {
	f.mu.RLock()
	last, fetched, failedAt := f.last, f.fetched, f.failedAt
	f.mu.RUnlock()

	if last != nil && time.Since(fetched) < f.TTL {
		return *last
	}
	if !failedAt.IsZero() && time.Since(failedAt) < f.FailureTTL {
		return orEmpty(last)
	}

	refreshCtx := context.WithoutCancel(ctx)
	if last != nil {
		f.refreshes.DoChan("portfolio", func() (any, error) {
			return f.refresh(refreshCtx)
		})
		return *last
	}

	v, err, _ := f.refreshes.Do("portfolio", func() (any, error) {
		return f.refresh(refreshCtx)
	})
	if err != nil {
		f.mu.RLock()
		defer f.mu.RUnlock()
		return orEmpty(f.last)
	}
	return v.(Portfolio)
}

// refresh fetches the portfolio and swaps it in.
func (f *PortfolioFetcher) refresh(ctx context.Context) (Portfolio, error) {
	rec := f.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}

	start := time.Now()
	p, err := f.fetch(ctx)
	rec.RecordFetchLatency("portfolio", time.Since(start))
	if err != nil {
		rec.RecordFetchFailure("portfolio")
		logger.ErrorWithFields("content: fetch portfolio failed", logger.Fields{
			"url":   f.URL,
			"error": err.Error(),
		})
		f.mu.Lock()
		f.failedAt = time.Now()
		f.mu.Unlock()
		return Portfolio{}, err
	}
	rec.RecordFetchSuccess("portfolio")

	f.mu.Lock()
	f.last = &p
	f.fetched = time.Now()
	f.failedAt = time.Time{}
	f.mu.Unlock()
	return p, nil
}

// Invalidate forces the next Get to refetch.
func (f *PortfolioFetcher) Invalidate() {
	f.mu.Lock()
	f.fetched = time.Time{}
	f.failedAt = time.Time{}
	f.mu.Unlock()
}

func orEmpty(p *Portfolio) Portfolio {
	if p == nil {
		return Empty()
	}
	return *p
}

func (f *PortfolioFetcher) fetch(ctx context.Context) (Portfolio, error) {
	data, err := fetch(ctx, f.Client, f.URL, "application/json")
	if err != nil {
		return Portfolio{}, err
	}
	return ParsePortfolio(data)
}

// Empty is the fallback portfolio with non-nil collections.
func Empty() Portfolio {
	return Portfolio{
		Keywords:   []string{},
		Experience: []Experience{},
		Positions:  []Position{},
		RecentWork: []RecentWork{},
		Works:      []Work{},
		Education:  []Education{},
		Projects:   []Project{},
		Software:   map[string][]Software{},
	}
}
