package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
}

// RSSFeed 输出最近发布文章的 RSS 2.0 订阅源。
func (a *API) RSSFeed(c *gin.Context) {
	settings := a.siteSettings(c)
	if !settings.EnableRSS {
		respondError(c, http.StatusNotFound, "RSS 已关闭")
		return
	}

	posts, err := a.posts.RecentPublished(20)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "生成订阅源失败")
		return
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       settings.SiteName,
			Link:        a.cfg.SiteBaseURL,
			Description: settings.SiteDescription,
			Items:       make([]rssItem, 0, len(posts)),
		},
	}

	for _, post := range posts {
		link := fmt.Sprintf("%s/posts/%s", a.cfg.SiteBaseURL, post.Slug)
		item := rssItem{
			Title:       post.Title,
			Link:        link,
			GUID:        link,
			Description: post.Excerpt,
		}
		if post.PublishedAt != nil {
			item.PubDate = post.PublishedAt.Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	c.XML(http.StatusOK, feed)
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap 输出站点地图：首页、文章、分类、标签与系列页。
func (a *API) Sitemap(c *gin.Context) {
	settings := a.siteSettings(c)
	if !settings.EnableSitemap {
		respondError(c, http.StatusNotFound, "Sitemap 已关闭")
		return
	}

	urls := []sitemapURL{{Loc: a.cfg.SiteBaseURL}}

	posts, err := a.posts.AllPublishedRefs()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "生成站点地图失败")
		return
	}
	for _, post := range posts {
		urls = append(urls, sitemapURL{
			Loc:     fmt.Sprintf("%s/posts/%s", a.cfg.SiteBaseURL, post.Slug),
			LastMod: post.UpdatedAt.Format("2006-01-02"),
		})
	}

	categories, err := a.categories.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "生成站点地图失败")
		return
	}
	for _, category := range categories {
		urls = append(urls, sitemapURL{
			Loc: fmt.Sprintf("%s/categories/%s", a.cfg.SiteBaseURL, category.Slug),
		})
	}

	tags, err := a.tags.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "生成站点地图失败")
		return
	}
	for _, tag := range tags {
		urls = append(urls, sitemapURL{
			Loc: fmt.Sprintf("%s/tags/%s", a.cfg.SiteBaseURL, tag.Slug),
		})
	}

	series, err := a.series.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "生成站点地图失败")
		return
	}
	for _, item := range series {
		urls = append(urls, sitemapURL{
			Loc: fmt.Sprintf("%s/series/%s", a.cfg.SiteBaseURL, item.Slug),
		})
	}

	c.XML(http.StatusOK, sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}
