package sites

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newscrawler/pkg/domain"
	"newscrawler/pkg/render"
)

var testRun = RunInfo{ID: "run-1", CrawledAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		src, err := New(name, Settings{})
		require.NoError(t, err)
		assert.Equal(t, name, src.Name())
	}

	_, err := New("cointelegraph", Settings{})
	assert.ErrorIs(t, err, ErrUnknownSource)
	assert.Equal(t, []string{Coin98Name, TapchiBitcoinName}, Names())
}

func TestSettingsOverrideDefaults(t *testing.T) {
	c := NewCoin98(Settings{})
	assert.Equal(t, "https://coin98.net/home/moi-nhat", c.HomeURL())
	assert.Equal(t, time.Second, c.ArticleDelay())

	tb := NewTapchiBitcoin(Settings{HomeURL: "https://tapchibitcoin.io/tin-tuc", ArticleDelay: 5 * time.Second})
	assert.Equal(t, "https://tapchibitcoin.io/tin-tuc", tb.HomeURL())
	assert.Equal(t, 5*time.Second, tb.ArticleDelay())
	assert.Equal(t, 2*time.Second, NewTapchiBitcoin(Settings{}).ArticleDelay())
}

func TestCoin98_IsArticleLink(t *testing.T) {
	c := NewCoin98(Settings{})

	var kept []string
	for _, link := range []string{"/learn/x", "/ab", "/", "/news/bitcoin-update"} {
		if c.IsArticleLink(link) {
			kept = append(kept, link)
		}
	}
	assert.Equal(t, []string{"/news/bitcoin-update"}, kept)

	assert.True(t, c.IsArticleLink("https://coin98.net/bitcoin-halving-2024"))
	assert.False(t, c.IsArticleLink("https://coin98.net/home/moi-nhat"))
	assert.False(t, c.IsArticleLink("https://coin98.net/Tags/defi"))
	assert.False(t, c.IsArticleLink(""))
}

func TestCoin98_DiscoverLinks(t *testing.T) {
	page := &render.Page{
		Success: true,
		InternalLinks: []string{
			"https://coin98.net/bitcoin-halving-2024",
			"https://coin98.net/learn/defi",
			"https://coin98.net/",
			"https://coin98.net/ethereum-etf",
			"https://coin98.net/bitcoin-halving-2024",
		},
	}
	assert.Equal(t, []string{
		"https://coin98.net/bitcoin-halving-2024",
		"https://coin98.net/ethereum-etf",
	}, NewCoin98(Settings{}).DiscoverLinks(page))

	assert.Empty(t, NewCoin98(Settings{}).DiscoverLinks(&render.Page{Success: false}))
}

const coin98ArticleHTML = `<html><head>
<title>Bitcoin halving 2024 là gì? - Coin98 Insights</title>
<script type="application/ld+json">{"@type":"Article","datePublished":"2024-03-15T10:00:00Z","dateModified":"2024-03-16T10:00:00Z"}</script>
</head><body><h1>Bitcoin halving 2024 là gì?</h1></body></html>`

const coin98ArticleMarkdown = `[Logo](/)
# Search
# Bitcoin halving 2024 là gì?
Copy link
5 min read
Sự kiện halving làm giảm một nửa phần thưởng khối ![hình](https://files.amberblocks.com/a/chart.png) cho thợ đào.
Xem thêm [tại đây](https://coin98.net/x) để hiểu rõ.
© 2024 Coin98`

func TestCoin98_ExtractRecord(t *testing.T) {
	page := &render.Page{
		Success:  true,
		HTML:     coin98ArticleHTML,
		Markdown: coin98ArticleMarkdown,
		Images: []render.Image{
			{Src: "https://coin98.net/logo.png"},
			{Src: "https://files.amberblocks.com/thumbnail/cover.webp"},
		},
	}

	rec := NewCoin98(Settings{}).ExtractRecord("https://coin98.net/bitcoin-halving-2024", page, testRun)

	assert.Equal(t, "Bitcoin halving 2024 là gì?", rec.Title)
	assert.Equal(t, "coin98.net", rec.Source)
	assert.Equal(t, "https://coin98.net/bitcoin-halving-2024", rec.ArticleURL)
	assert.Equal(t, "https://files.amberblocks.com/thumbnail/cover.webp", rec.ImageURL)
	assert.Equal(t, int64(1710496800), rec.CreatedAt)
	assert.Equal(t, int64(1710583200), rec.UpdatedAt)
	assert.Equal(t, "# Bitcoin halving 2024 là gì?\nXem thêm  để hiểu rõ.", rec.Content)
	assert.Equal(t, map[string]any{"crawled_at": "2025-06-01T08:00:00Z", "run_id": "run-1"}, rec.ExtraInformation)
}

func TestCoin98_ExtractRecordFallbacks(t *testing.T) {
	page := &render.Page{
		Success:  true,
		HTML:     `<html><body><p>Đăng ngày <time datetime="2024-02-01T00:00:00Z">1/2</time></p></body></html>`,
		Markdown: "no heading here",
	}

	rec := NewCoin98(Settings{}).ExtractRecord("https://coin98.net/x-article", page, testRun)

	assert.Equal(t, domain.UntitledTitle, rec.Title)
	assert.Equal(t, "", rec.Content)
	assert.Equal(t, "", rec.ImageURL)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Unix(), rec.CreatedAt)
	assert.Equal(t, int64(0), rec.UpdatedAt)
}

func TestTapchiBitcoin_IsArticleLink(t *testing.T) {
	tb := NewTapchiBitcoin(Settings{})

	tests := map[string]bool{
		"https://tapchibitcoin.io/bitcoin-vuot-dinh.html":     true,
		"https://tapchibitcoin.io/bitcoin-vuot-dinh":          true,
		"https://www.tapchibitcoin.io/bitcoin-vuot-dinh.html": true,
		"https://tapchibitcoin.io/category/tin-tuc.html":      false,
		"https://tapchibitcoin.io/feed":                       false,
		"https://tapchibitcoin.io/sitemap.xml":                false,
		"https://tapchibitcoin.io/short":                      false,
		"https://tapchibitcoin.io/":                           false,
		"https://coin98.net/bitcoin-vuot-dinh.html":           false,
		"https://tapchibitcoin.io.evil.com/bitcoin-vuot-dinh": false,
		"/bitcoin-vuot-dinh.html":                             false,
	}
	for in, want := range tests {
		assert.Equal(t, want, tb.IsArticleLink(in), in)
	}
}

const tapchiListingHTML = `<html><body>
<div class="lasted_post"><div class="list_post">
  <div class="item"><a href="/bitcoin-vuot-dinh.html"><img src="a.jpg"></a><a href="/bitcoin-vuot-dinh.html">Bitcoin vượt đỉnh</a></div>
  <div class="item"><a href="/category/tin-tuc">Tin tức</a></div>
  <div class="item"><a href="https://othersite.io/ethereum-nang-cap.html">Ngoài</a></div>
  <div class="item"><a href="ethereum-nang-cap-thanh-cong">Ethereum</a></div>
</div></div>
</body></html>`

func TestTapchiBitcoin_DiscoverLinks(t *testing.T) {
	page := &render.Page{Success: true, URL: "https://tapchibitcoin.io/", HTML: tapchiListingHTML}

	assert.Equal(t, []string{
		"https://tapchibitcoin.io/bitcoin-vuot-dinh.html",
		"https://tapchibitcoin.io/ethereum-nang-cap-thanh-cong",
	}, NewTapchiBitcoin(Settings{}).DiscoverLinks(page))

	assert.Empty(t, NewTapchiBitcoin(Settings{}).DiscoverLinks(&render.Page{Success: true, URL: "https://tapchibitcoin.io/", HTML: "<html><body></body></html>"}))
	assert.Empty(t, NewTapchiBitcoin(Settings{}).DiscoverLinks(nil))
}

const tapchiArticleHTML = `<html><head><title>Bitcoin vượt đỉnh | TapchiBitcoin.io</title>
<script type="application/ld+json">{"datePublished":"2020-01-01T00:00:00Z","dateModified":"2024-03-16T10:00:00Z"}</script>
</head><body>
<h1>Bitcoin vượt đỉnh</h1>
<ul class="post_meta"><li>Tác giả</li><li>15/03/2024</li><li>10:00</li></ul>
<div class="the_content"><p>Giá <em>bitcoin</em> tăng mạnh.</p></div>
</body></html>`

func TestTapchiBitcoin_ExtractRecord(t *testing.T) {
	images := []render.Image{{Src: "https://tapchibitcoin.io/icon.svg"}, {Src: "https://tapchibitcoin.io/cover.gif"}}
	page := &render.Page{Success: true, HTML: tapchiArticleHTML, Text: "Giá bitcoin tăng mạnh.", Images: images}

	rec := NewTapchiBitcoin(Settings{}).ExtractRecord("https://tapchibitcoin.io/bitcoin-vuot-dinh.html", page, testRun)

	assert.Equal(t, "Bitcoin vượt đỉnh", rec.Title)
	assert.Equal(t, "Giá _bitcoin_ tăng mạnh.", rec.Content)
	assert.Equal(t, "tapchibitcoin.io", rec.Source)
	assert.Equal(t, "https://tapchibitcoin.io/cover.gif", rec.ImageURL)
	assert.Equal(t, int64(1710496800), rec.CreatedAt)
	// the metadata list supplied the creation date, so structured data is not consulted
	assert.Equal(t, int64(0), rec.UpdatedAt)

	assert.Equal(t, "run-1", rec.ExtraInformation["run_id"])
	assert.Equal(t, tapchiArticleHTML, rec.ExtraInformation["raw_html"])
	assert.Equal(t, "Giá bitcoin tăng mạnh.", rec.ExtraInformation["extracted_text"])
	assert.Equal(t, map[string]any{"images": images}, rec.ExtraInformation["media_info"])
}

func TestTapchiBitcoin_ExtractRecordWithoutContainer(t *testing.T) {
	page := &render.Page{
		Success: true,
		HTML: `<html><head><title>TapchiBitcoin</title>
<script type="application/ld+json">[{"datePublished":"15 March 2024"}]</script></head>
<body><h1>Tiêu đề dự phòng</h1><p>Nội dung ngoài khung.</p></body></html>`,
	}

	rec := NewTapchiBitcoin(Settings{}).ExtractRecord("https://tapchibitcoin.io/x.html", page, testRun)

	assert.Equal(t, "TapchiBitcoin", rec.Title)
	assert.Equal(t, "", rec.Content)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).Unix(), rec.CreatedAt)
}

func TestTapchiBitcoin_TitleFallsBackToHeading(t *testing.T) {
	page := &render.Page{Success: true, HTML: `<html><head><title> - TapchiBitcoin</title></head><body><h1>Tiêu đề dự phòng</h1></body></html>`}
	rec := NewTapchiBitcoin(Settings{}).ExtractRecord("https://tapchibitcoin.io/x.html", page, testRun)
	assert.Equal(t, "Tiêu đề dự phòng", rec.Title)
}
