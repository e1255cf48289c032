package urls

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newscrawler/pkg/httpclient"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Tạp chí Bitcoin</title>
		<link>https://tapchibitcoin.io</link>
		<item>
			<title>Bitcoin vượt đỉnh</title>
			<link>https://tapchibitcoin.io/bitcoin-vuot-dinh.html</link>
		</item>
		<item>
			<title>Chuyên mục</title>
			<link>https://tapchibitcoin.io/category/tin-tuc</link>
		</item>
		<item>
			<title>Trùng lặp</title>
			<link>https://tapchibitcoin.io/bitcoin-vuot-dinh.html</link>
		</item>
		<item>
			<title>Ethereum nâng cấp</title>
			<link>https://tapchibitcoin.io/ethereum-nang-cap.html</link>
		</item>
	</channel>
</rss>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeedFetcher_Fetch(t *testing.T) {
	srv := serveFeed(t, testRSS)

	items, err := NewFeedFetcher("newscrawler-test", nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "Bitcoin vượt đỉnh", items[0].Title)
	assert.Equal(t, "https://tapchibitcoin.io/bitcoin-vuot-dinh.html", items[0].Location)
}

func TestFeedFetcher_AtomFeed(t *testing.T) {
	srv := serveFeed(t, `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Atom</title>
	<entry><title>One</title><link href="https://coin98.net/one"/></entry>
	<entry><title>Two</title><link href="https://coin98.net/two"/></entry>
</feed>`)

	items, err := NewFeedFetcher("", nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://coin98.net/one", "https://coin98.net/two"}, Locations(items))
}

func TestFeedFetcher_EmptyFeed(t *testing.T) {
	srv := serveFeed(t, `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`)

	_, err := NewFeedFetcher("", nil).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrEmptyFeed)
}

func TestFeedFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewFeedFetcher("", nil).Fetch(context.Background(), addr)
	assert.Error(t, err)
}

func TestFilteredLinks_FiltersAndDedupes(t *testing.T) {
	srv := serveFeed(t, testRSS)

	keep := func(u string) bool { return strings.HasSuffix(u, ".html") }
	links, err := FilteredLinks(context.Background(), NewFeedFetcher("", nil), srv.URL, keep)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://tapchibitcoin.io/bitcoin-vuot-dinh.html",
		"https://tapchibitcoin.io/ethereum-nang-cap.html",
	}, links)
}

func TestFeedFetcher_StalledFeedTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := httpclient.NewClientWithTimeout(httpclient.BrowserClient, 50*time.Millisecond).Client()
	start := time.Now()
	_, err := NewFeedFetcher("", client).Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
