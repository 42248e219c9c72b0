package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BoxOfficeETL/internal/domain"
	"BoxOfficeETL/internal/failure"
	"BoxOfficeETL/internal/scanner"
)

const (
	yearPlaceholder  = "{year}"
	defaultUserAgent = "BoxOfficeETL/1.0"
)

// WeekendScanner reads a by-year weekend chart and extracts one record per table row.
type WeekendScanner struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewWeekendScanner wires an HTTP client; a nil client gets a 20s timeout.
func NewWeekendScanner(client *http.Client, userAgent string, logger *slog.Logger) *WeekendScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &WeekendScanner{client: client, userAgent: userAgent, logger: logger}
}

// Name identifies the strategy inside the registry.
func (w *WeekendScanner) Name() string {
	return "boxofficemojo-weekend"
}

// Scan fetches the chart for req.Year. The year is attached to every record.
func (w *WeekendScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ListingRecord, error) {
	subject := strconv.Itoa(req.Year)

	pageURL, err := buildPageURL(req.URLTemplate, req.Year)
	if err != nil {
		return nil, failure.MalformedInput("build url", subject, err)
	}

	doc, err := w.fetchDocument(ctx, pageURL, subject)
	if err != nil {
		return nil, err
	}

	records := extractListings(doc, req.Year, req.TitleCell, req.WeekendCell)
	if w.logger != nil {
		w.logger.Debug("chart parsed", "source", req.SourceName, "year", req.Year, "rows", len(records))
	}
	return records, nil
}

func (w *WeekendScanner) fetchDocument(ctx context.Context, pageURL, subject string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, failure.MalformedInput("build request", subject, err)
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, failure.Transport("request chart", subject, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failure.Transport("request chart", subject, fmt.Errorf("listing site returned %s", resp.Status))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, failure.MalformedInput("parse chart", subject, err)
	}
	return doc, nil
}

// extractListings skips the header row and reads the link text of two cells per row.
func extractListings(doc *goquery.Document, year, titleCell, weekendCell int) []domain.ListingRecord {
	var records []domain.ListingRecord

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		records = append(records, domain.ListingRecord{
			Year:             year,
			NumberOneRelease: linkText(cells, titleCell),
			WeekendNumber:    linkText(cells, weekendCell),
		})
	})

	return records
}

// linkText returns the text of the first anchor in the idx-th cell, or "" when there is none.
func linkText(cells *goquery.Selection, idx int) string {
	if idx < 0 || idx >= cells.Length() {
		return ""
	}
	link := cells.Eq(idx).Find("a").First()
	if link.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(link.Text())
}

func buildPageURL(template string, year int) (string, error) {
	raw := strings.ReplaceAll(template, yearPlaceholder, strconv.Itoa(year))
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid chart url %s: %w", raw, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("chart url %s is not absolute", raw)
	}
	return parsed.String(), nil
}
