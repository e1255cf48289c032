package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"newscrawler/pkg/domain"
)

func TestStructuredDates(t *testing.T) {
	tests := []struct {
		name string
		html string
		want domain.RawDates
	}{
		{
			name: "single object",
			html: `<script type="application/ld+json">{"@type":"NewsArticle","datePublished":"2024-03-15T10:00:00Z","dateModified":"2024-03-16T08:00:00Z"}</script>`,
			want: domain.RawDates{CreatedAt: "2024-03-15T10:00:00Z", UpdatedAt: "2024-03-16T08:00:00Z"},
		},
		{
			name: "list of objects",
			html: `<script type="application/ld+json">[{"@type":"Organization"},{"datePublished":"2024-01-02"}]</script>`,
			want: domain.RawDates{CreatedAt: "2024-01-02"},
		},
		{
			name: "graph array",
			html: `<script type="application/ld+json">{"@context":"https://schema.org","@graph":[{"@type":"WebPage"},{"@type":"Article","datePublished":"2024-05-01T07:00:00+07:00","dateModified":"2024-05-02T07:00:00+07:00"}]}</script>`,
			want: domain.RawDates{CreatedAt: "2024-05-01T07:00:00+07:00", UpdatedAt: "2024-05-02T07:00:00+07:00"},
		},
		{
			name: "malformed block skipped and first value wins",
			html: `<script type="application/ld+json">{not json</script>
<script type="application/ld+json">{"datePublished":"2024-02-01"}</script>
<script type="application/ld+json">{"datePublished":"2023-01-01","dateModified":"2024-02-03"}</script>
<script type="application/ld+json">{"dateModified":"2099-01-01"}</script>`,
			want: domain.RawDates{CreatedAt: "2024-02-01", UpdatedAt: "2024-02-03"},
		},
		{
			name: "non string values ignored",
			html: `<script type="application/ld+json">{"datePublished":20240101}</script>`,
			want: domain.RawDates{},
		},
		{
			name: "other script types ignored",
			html: `<script type="text/javascript">{"datePublished":"2024-01-01"}</script>`,
			want: domain.RawDates{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StructuredDates(Parse("<html><head>"+tt.html+"</head><body></body></html>")))
		})
	}
}

func TestMetaListDates(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "date and time combined",
			html: `<ul class="post_meta"><li>Tác giả</li><li>5/3/2024</li><li>9:05</li></ul>`,
			want: "2024-03-05T09:05:00",
		},
		{
			name: "date only",
			html: `<ul class="post_meta"><li>15/03/2024</li><li>Tin tức</li></ul>`,
			want: "15/03/2024",
		},
		{
			name: "unparseable combination keeps date token",
			html: `<ul class="post_meta"><li>31/02/2024</li><li>10:30</li></ul>`,
			want: "31/02/2024",
		},
		{
			name: "time only yields nothing",
			html: `<ul class="post_meta"><li>10:30</li></ul>`,
			want: "",
		},
		{
			name: "missing list",
			html: `<ul class="other"><li>15/03/2024</li></ul>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MetaListDates(Parse(tt.html), "ul.post_meta")
			assert.Equal(t, tt.want, got.CreatedAt)
			assert.Empty(t, got.UpdatedAt)
		})
	}
}

func TestTagScanDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "time element",
			html: `<time datetime="2019-01-01">old</time><time datetime="2024-03-15T10:00:00Z">new</time>`,
			want: "2024-03-15T10:00:00Z",
		},
		{
			name: "date span",
			html: `<span class="date-published">Mar 15, 2024</span>`,
			want: "Mar 15, 2024",
		},
		{
			name: "time preferred over span",
			html: `<span class="date">Jan 1, 2024</span><time datetime="2023-07-07">x</time>`,
			want: "2023-07-07",
		},
		{
			name: "future year rejected",
			html: `<time datetime="2031-01-01">x</time>`,
			want: "",
		},
		{
			name: "class must start with date",
			html: `<span class="update-date">Jan 1, 2024</span>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TagScanDate(Parse(tt.html), now))
		})
	}
}
