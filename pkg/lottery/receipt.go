package lottery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"lottobot/pkg/logger"
)

// ReceiptReference identifies one purchase receipt: the three numeric tokens
// encoded in the purchase-history row's detail link, in order of appearance.
type ReceiptReference struct {
	OrderNo string
	Barcode string
	IssueNo string
}

// DetailURL builds the receipt detail page URL for the reference.
func (r ReceiptReference) DetailURL() string {
	return fmt.Sprintf(
		"https://dhlottery.co.kr/myPage.do?method=lotto645Detail&orderNo=%s&barcode=%s&issueNo=%s",
		r.OrderNo, r.Barcode, r.IssueNo,
	)
}

var numberRun = regexp.MustCompile(`\d+`)

// ParseReceiptReference extracts {orderNo, barcode, issueNo} from a
// purchase-history anchor href. The link format is positional: the first
// three numeric runs are the tokens we need.
func ParseReceiptReference(href string) (ReceiptReference, error) {
	tokens := numberRun.FindAllString(href, 3)
	if len(tokens) < 3 {
		return ReceiptReference{}, fmt.Errorf("%w: href %q has %d numeric tokens, want 3", ErrParse, href, len(tokens))
	}
	return ReceiptReference{OrderNo: tokens[0], Barcode: tokens[1], IssueNo: tokens[2]}, nil
}

// Retriever confirms a committed purchase by querying the purchase-history
// endpoint directly over HTTP, reusing the browser session's cookies instead
// of driving more UI.
type Retriever struct {
	client     *http.Client
	listURL    string
	userAgent  string
	pollWindow time.Duration
	log        *logger.Logger
}

// NewRetriever returns a Retriever against the live purchase-history
// endpoint.
func NewRetriever(log *logger.Logger) *Retriever {
	return &Retriever{
		client:     &http.Client{Timeout: 30 * time.Second},
		listURL:    BuyListURL,
		userAgent:  "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		pollWindow: 8 * time.Second,
		log:        log,
	}
}

// FetchTodaysLink posts the purchase-history search for the given date
// (YYYYMMDD) and returns the href of the first result row's detail link.
//
// A purchase that just committed may not be reflected in the listing yet, so
// a missing row is polled with short backoff before ErrReceiptNotFound is
// surfaced. The request is read-only; the purchase itself is never retried.
func (r *Retriever) FetchTodaysLink(ctx context.Context, cookies SessionCookies, date string) (string, error) {
	var href string

	op := func() error {
		link, err := r.fetchOnce(ctx, cookies, date)
		if err != nil {
			if errors.Is(err, ErrReceiptNotFound) {
				r.log.Debug("purchase row not listed yet, polling again")
				return err
			}
			return backoff.Permanent(err)
		}
		href = link
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = r.pollWindow

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return href, nil
}

func (r *Retriever) fetchOnce(ctx context.Context, cookies SessionCookies, date string) (string, error) {
	form := url.Values{}
	form.Set("searchStartDate", date)
	form.Set("searchEndDate", date)
	form.Set("winGrade", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.listURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build purchase-history request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Cookie", cookies.Header())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch purchase history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("purchase history returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("read purchase history: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse purchase history: %w", err)
	}

	href, ok := doc.Find("tbody > tr").First().Find("td:nth-child(4) a").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", fmt.Errorf("%w: date %s", ErrReceiptNotFound, date)
	}
	return href, nil
}
