package service

import (
	"fmt"
	"html"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

const mailAPIBaseURL = "https://api.resend.com"

// Mailer 通过事务邮件 API 发送通知邮件。未配置 API Key 或发件人时
// 所有发送退化为 no-op：记录日志并返回 nil，调用方不感知差异。
type Mailer struct {
	client   *resty.Client
	apiKey   string
	from     string
	siteName string
	baseURL  string
}

// NewMailer 构造 Mailer。siteName 用于邮件标题，baseURL 用于拼接文章链接。
func NewMailer(apiKey, from, siteName, baseURL string) *Mailer {
	return &Mailer{
		client: resty.New().
			SetBaseURL(mailAPIBaseURL).
			SetTimeout(10 * time.Second),
		apiKey:   apiKey,
		from:     from,
		siteName: siteName,
		baseURL:  baseURL,
	}
}

// Enabled 返回邮件通道是否可用。
func (m *Mailer) Enabled() bool {
	return m.apiKey != "" && m.from != ""
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		log.Printf("mailer not configured, skipping notification %q", subject)
		return nil
	}

	resp, err := m.client.R().
		SetAuthToken(m.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"from":    fmt.Sprintf("%s <%s>", m.siteName, m.from),
			"to":      []string{to},
			"subject": subject,
			"html":    htmlBody,
		}).
		Post("/emails")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("send email: unexpected status %s", resp.Status())
	}
	return nil
}

// ReplyNotification 是回复通知邮件的内容。
type ReplyNotification struct {
	To            string
	PostTitle     string
	PostSlug      string
	ParentAuthor  string
	ParentContent string
	ReplyAuthor   string
	ReplyContent  string
}

// SendCommentReplyNotification 通知原评论者其评论收到了已审核通过的回复。
func (m *Mailer) SendCommentReplyNotification(n ReplyNotification) error {
	postURL := fmt.Sprintf("%s/posts/%s", m.baseURL, n.PostSlug)
	subject := fmt.Sprintf("您在「%s」的评论收到了回复", n.PostTitle)

	body := fmt.Sprintf(`<p>Hi %s，</p>
<p>您在文章「<a href="%s">%s</a>」中的评论收到了新回复：</p>
<blockquote><p>您的评论：%s</p></blockquote>
<blockquote><p><strong>%s</strong> 回复了您：%s</p></blockquote>
<p><a href="%s">查看完整对话</a></p>
<p style="color:#999;font-size:12px;">此邮件由 %s 自动发送，请勿直接回复。</p>`,
		html.EscapeString(n.ParentAuthor),
		postURL,
		html.EscapeString(n.PostTitle),
		html.EscapeString(n.ParentContent),
		html.EscapeString(n.ReplyAuthor),
		html.EscapeString(n.ReplyContent),
		postURL,
		html.EscapeString(m.siteName),
	)

	return m.send(n.To, subject, body)
}

// NewCommentNotification 是发给管理员的新评论通知内容。
type NewCommentNotification struct {
	To             string
	PostTitle      string
	PostSlug       string
	CommenterName  string
	CommenterEmail string
	CommentContent string
}

// SendNewCommentNotification 通知管理员有新评论待审核。
func (m *Mailer) SendNewCommentNotification(n NewCommentNotification) error {
	if n.To == "" {
		return nil
	}

	postURL := fmt.Sprintf("%s/posts/%s", m.baseURL, n.PostSlug)
	subject := fmt.Sprintf("[新评论] %s 在「%s」发表了评论", n.CommenterName, n.PostTitle)

	body := fmt.Sprintf(`<h2>新评论通知</h2>
<p><strong>文章：</strong><a href="%s">%s</a></p>
<p><strong>评论者：</strong>%s (%s)</p>
<blockquote><p>%s</p></blockquote>`,
		postURL,
		html.EscapeString(n.PostTitle),
		html.EscapeString(n.CommenterName),
		html.EscapeString(n.CommenterEmail),
		html.EscapeString(n.CommentContent),
	)

	return m.send(n.To, subject, body)
}
