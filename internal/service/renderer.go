package service

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)

	// 在 UGC 策略之上放行目录锚点的 id 与图片的懒加载属性，其余仍按 UGC 规则清理。
	contentSanitizer = func() *bluemonday.Policy {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("id").OnElements("h1", "h2", "h3")
		policy.AllowAttrs("loading").OnElements("img")
		return policy
	}()

	genericTagPattern = regexp.MustCompile(`(?is)<[a-z][\s\S]*>`)
	headingTagPattern = regexp.MustCompile(`(?is)<h([1-3])[^>]*>(.*?)</h[1-3]>`)
	anyTagPattern     = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// readingCharsPerMinute 是统一的阅读速度：去除标签与空白后按每分钟 500 字估算。
const readingCharsPerMinute = 500

// Heading 描述渲染结果中一个可导航的标题锚点。
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// RenderedContent 是内容渲染结果：净化后的 HTML 与按文档顺序排列的标题目录。
type RenderedContent struct {
	HTML     string    `json:"html"`
	Headings []Heading `json:"headings"`
}

// isPrerenderedHTML 判断存量内容是否为已渲染的 HTML：
// 命中通用标签形态且包含段落/标题/div 之一时按 HTML 处理，否则按 Markdown 解析。
func isPrerenderedHTML(content string) bool {
	if !genericTagPattern.MatchString(content) {
		return false
	}
	return strings.Contains(content, "<p>") ||
		strings.Contains(content, "<h") ||
		strings.Contains(content, "<div")
}

// RenderContent 将文章原始内容渲染为安全、可导航的 HTML。
// h1~h3 按文档顺序获得 heading-N 锚点，img 注入懒加载属性。
func RenderContent(content string) (RenderedContent, error) {
	rendered := content
	if !isPrerenderedHTML(content) {
		var buf bytes.Buffer
		if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
			return RenderedContent{}, err
		}
		rendered = buf.String()
	}

	headings := make([]Heading, 0, 8)
	index := 0
	rendered = headingTagPattern.ReplaceAllStringFunc(rendered, func(match string) string {
		groups := headingTagPattern.FindStringSubmatch(match)
		if len(groups) < 3 {
			return match
		}

		level := int(groups[1][0] - '0')
		inner := groups[2]
		id := fmt.Sprintf("heading-%d", index)
		index++

		headings = append(headings, Heading{
			ID:    id,
			Text:  strings.TrimSpace(anyTagPattern.ReplaceAllString(inner, "")),
			Level: level,
		})
		return fmt.Sprintf(`<h%d id="%s">%s</h%d>`, level, id, inner, level)
	})

	rendered = strings.ReplaceAll(rendered, "<img ", `<img loading="lazy" `)

	return RenderedContent{
		HTML:     contentSanitizer.Sanitize(rendered),
		Headings: headings,
	}, nil
}

// EstimateReadingTime 估算阅读分钟数：剥离标签与空白后按字符数计，向上取整，最少 1 分钟。
func EstimateReadingTime(content string) int {
	text := anyTagPattern.ReplaceAllString(content, "")
	text = whitespacePattern.ReplaceAllString(text, "")

	runes := len([]rune(text))
	minutes := (runes + readingCharsPerMinute - 1) / readingCharsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
