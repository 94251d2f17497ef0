package aladhan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/scheduler"
)

const jakartaBody = `{"code":200,"status":"OK","data":{"timings":{
	"Fajr":"04:32 (WIB)","Sunrise":"05:49 (WIB)","Dhuhr":"11:58 (WIB)",
	"Asr":"15:14 (WIB)","Maghrib":"18:03 (WIB)","Isha":"19:13 (WIB)","Midnight":"23:58 (WIB)"}}}`

func newTestClient(srv *httptest.Server) (*Client, *[]time.Duration) {
	c := NewClient(srv.URL, time.Second)
	var waits []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return c, &waits
}

func jakartaQuery() scheduler.TimingsQuery {
	return scheduler.TimingsQuery{
		City:    "Jakarta",
		Country: "Indonesia",
		Method:  20,
		School:  0,
		Date:    time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC),
	}
}

func TestFetchTimingsCleansAnnotations(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(jakartaBody))
	}))
	defer srv.Close()
	c, waits := newTestClient(srv)

	timing, err := c.FetchTimings(context.Background(), jakartaQuery())
	require.NoError(t, err)

	assert.Equal(t, "/timingsByCity/07-03-2026", gotPath)
	assert.Contains(t, gotQuery, "city=Jakarta")
	assert.Contains(t, gotQuery, "method=20")
	assert.Contains(t, gotQuery, "school=0")
	assert.Equal(t, model.PrayerTiming{
		Fajr: "04:32", Sunrise: "05:49", Dhuhr: "11:58", Asr: "15:14", Maghrib: "18:03", Isha: "19:13",
	}, timing)
	assert.Empty(t, *waits)
}

func TestFetchTimingsUsesLocalDateOfQuery(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(jakartaBody))
	}))
	defer srv.Close()
	c, _ := newTestClient(srv)

	q := jakartaQuery()
	q.Date = time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC).In(time.FixedZone("WIB", 7*3600))
	_, err := c.FetchTimings(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "/timingsByCity/08-03-2026", gotPath)
}

func TestFetchTimingsZeroDateMeansToday(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(jakartaBody))
	}))
	defer srv.Close()
	c, _ := newTestClient(srv)

	q := jakartaQuery()
	q.Date = time.Time{}
	before := time.Now()
	_, err := c.FetchTimings(context.Background(), q)
	require.NoError(t, err)
	after := time.Now()

	assert.NotEqual(t, "/timingsByCity/01-01-0001", gotPath)
	assert.Contains(t, []string{
		"/timingsByCity/" + before.Format("02-01-2006"),
		"/timingsByCity/" + after.Format("02-01-2006"),
	}, gotPath)
}

func TestFetchTimingsRetriesWithBackoff(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(jakartaBody))
	}))
	defer srv.Close()
	c, waits := newTestClient(srv)

	_, err := c.FetchTimings(context.Background(), jakartaQuery())
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *waits)
}

func TestFetchTimingsGivesUpAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()
	c, _ := newTestClient(srv)

	_, err := c.FetchTimings(context.Background(), jakartaQuery())
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadGateway, perr.StatusCode)
	assert.EqualValues(t, 3, calls.Load())
}

func TestFetchTimingsRejectsNon200Code(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":400,"status":"Unable to locate city","data":{}}`))
	}))
	defer srv.Close()
	c, _ := newTestClient(srv)

	_, err := c.FetchTimings(context.Background(), jakartaQuery())
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 400, perr.Code)
	assert.Contains(t, err.Error(), "Unable to locate city")
}

func TestFetchMonthNormalizesDates(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"code":200,"status":"OK","data":[
			{"timings":{"Fajr":"05:20 (+04)","Dhuhr":"12:30 (+04)","Asr":"15:52 (+04)","Maghrib":"18:24 (+04)","Isha":"19:38 (+04)"},
			 "date":{"gregorian":{"date":"01-03-2026"}}},
			{"timings":{"Fajr":"05:19 (+04)","Dhuhr":"12:30 (+04)","Asr":"15:52 (+04)","Maghrib":"18:25 (+04)","Isha":"19:39 (+04)"},
			 "date":{"gregorian":{"date":"02-03-2026"}}}]}`))
	}))
	defer srv.Close()
	c, _ := newTestClient(srv)

	days, err := c.FetchMonth(context.Background(), jakartaQuery(), 2026, time.March)
	require.NoError(t, err)
	assert.Equal(t, "/calendarByCity/2026/3", gotPath)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-03-01", days[0].Date)
	assert.Equal(t, "05:20", days[0].Timings.Fajr)
	assert.Equal(t, "2026-03-02", days[1].Date)
}

func TestMethods(t *testing.T) {
	assert.True(t, ValidMethod(4))
	assert.False(t, ValidMethod(6))
	assert.True(t, ValidSchool(1))
	assert.False(t, ValidSchool(2))
}
