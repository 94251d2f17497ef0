// Package aladhan fetches daily prayer timings from the Aladhan API.
package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/scheduler"
)

const (
	DefaultBaseURL = "https://api.aladhan.com/v1"
	DefaultTimeout = 10 * time.Second
	maxAttempts    = 3
)

// ProviderError is a non-2xx reply or a body whose code is not 200.
type ProviderError struct {
	StatusCode int
	Code       int
	Status     string
	Body       string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("aladhan API error (%d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("aladhan API returned status %d: %s", e.Code, e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ scheduler.TimeProvider = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type rawTimings map[string]string

func (r rawTimings) timing() model.PrayerTiming {
	return model.PrayerTiming{
		Fajr:    scheduler.CleanTime(r["Fajr"]),
		Sunrise: scheduler.CleanTime(r["Sunrise"]),
		Dhuhr:   scheduler.CleanTime(r["Dhuhr"]),
		Asr:     scheduler.CleanTime(r["Asr"]),
		Maghrib: scheduler.CleanTime(r["Maghrib"]),
		Isha:    scheduler.CleanTime(r["Isha"]),
	}
}

type timingsResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Timings rawTimings `json:"timings"`
	} `json:"data"`
}

type calendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []struct {
		Timings rawTimings `json:"timings"`
		Date    struct {
			Gregorian struct {
				Date string `json:"date"`
			} `json:"gregorian"`
		} `json:"date"`
	} `json:"data"`
}

func params(q scheduler.TimingsQuery) url.Values {
	v := url.Values{}
	v.Set("city", q.City)
	v.Set("country", q.Country)
	v.Set("method", strconv.Itoa(q.Method))
	v.Set("school", strconv.Itoa(q.School))
	return v
}

// FetchTimings returns the timings of q.Date's calendar day, or of today when
// q.Date is zero.
func (c *Client) FetchTimings(ctx context.Context, q scheduler.TimingsQuery) (model.PrayerTiming, error) {
	day := q.Date
	if day.IsZero() {
		day = time.Now()
	}
	endpoint := fmt.Sprintf("%s/timingsByCity/%s?%s", c.baseURL, day.Format("02-01-2006"), params(q).Encode())

	var out timingsResponse
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return model.PrayerTiming{}, err
	}
	if out.Code != http.StatusOK {
		return model.PrayerTiming{}, &ProviderError{Code: out.Code, Status: out.Status}
	}
	return out.Data.Timings.timing(), nil
}

// FetchMonth returns every day of a month with dates normalized to YYYY-MM-DD.
func (c *Client) FetchMonth(ctx context.Context, q scheduler.TimingsQuery, year int, month time.Month) ([]model.DayTiming, error) {
	endpoint := fmt.Sprintf("%s/calendarByCity/%d/%d?%s", c.baseURL, year, int(month), params(q).Encode())

	var out calendarResponse
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out.Code != http.StatusOK {
		return nil, &ProviderError{Code: out.Code, Status: out.Status}
	}
	days := make([]model.DayTiming, 0, len(out.Data))
	for _, d := range out.Data {
		date, err := time.Parse("02-01-2006", d.Date.Gregorian.Date)
		if err != nil {
			return nil, fmt.Errorf("aladhan calendar date %q: %w", d.Date.Gregorian.Date, err)
		}
		days = append(days, model.DayTiming{Date: date.Format(scheduler.DateLayout), Timings: d.Timings.timing()})
	}
	return days, nil
}

// retryPolicy doubles from one second between attempts: 1s then 2s.
func retryPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, maxAttempts-1)
}

// getJSON retries transport and HTTP failures up to maxAttempts times.
func (c *Client) getJSON(ctx context.Context, endpoint string, into any) error {
	policy := retryPolicy()
	for attempt := 1; ; attempt++ {
		err := c.getOnce(ctx, endpoint, into)
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("aladhan request failed")
		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			return err
		}
		if serr := c.sleep(ctx, wait); serr != nil {
			return fmt.Errorf("%w (retry aborted: %v)", err, serr)
		}
	}
}

func (c *Client) getOnce(ctx context.Context, endpoint string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ProviderError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode aladhan response: %w", err)
	}
	return nil
}
