package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMailerDisabledIsNoop(t *testing.T) {
	mailer := NewMailer("", "", "Vixen Blog", "https://blog.example.com")

	if mailer.Enabled() {
		t.Fatalf("mailer without credentials must be disabled")
	}
	if err := mailer.SendCommentReplyNotification(ReplyNotification{
		To: "guest@example.com", PostTitle: "t", PostSlug: "s",
	}); err != nil {
		t.Fatalf("disabled mailer must not error: %v", err)
	}
}

func TestMailerSendsReplyNotification(t *testing.T) {
	var captured map[string]interface{}
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mailer := NewMailer("re_test_key", "noreply@example.com", "Vixen Blog", "https://blog.example.com")
	mailer.client.SetBaseURL(server.URL)

	err := mailer.SendCommentReplyNotification(ReplyNotification{
		To:            "parent@example.com",
		PostTitle:     "Go 并发模式",
		PostSlug:      "go-concurrency",
		ParentAuthor:  "甲",
		ParentContent: "写得好",
		ReplyAuthor:   "乙",
		ReplyContent:  "同感 <b>加一</b>",
	})
	if err != nil {
		t.Fatalf("send reply notification: %v", err)
	}

	if authHeader != "Bearer re_test_key" {
		t.Fatalf("auth header = %q", authHeader)
	}
	if captured["from"] != "Vixen Blog <noreply@example.com>" {
		t.Fatalf("from = %v", captured["from"])
	}
	to, ok := captured["to"].([]interface{})
	if !ok || len(to) != 1 || to[0] != "parent@example.com" {
		t.Fatalf("to = %v", captured["to"])
	}

	body, _ := captured["html"].(string)
	if !strings.Contains(body, "https://blog.example.com/posts/go-concurrency") {
		t.Fatalf("body missing post url: %s", body)
	}
	// 评论内容必须转义后写入邮件正文。
	if !strings.Contains(body, "同感 &lt;b&gt;加一&lt;/b&gt;") {
		t.Fatalf("body missing escaped reply content: %s", body)
	}
}

func TestMailerPropagatesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	mailer := NewMailer("re_test_key", "noreply@example.com", "Vixen Blog", "https://blog.example.com")
	mailer.client.SetBaseURL(server.URL)

	if err := mailer.SendNewCommentNotification(NewCommentNotification{
		To: "admin@example.com", PostTitle: "t", PostSlug: "s",
		CommenterName: "甲", CommenterEmail: "a@x.com", CommentContent: "c",
	}); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestMailerNewCommentSkipsWithoutRecipient(t *testing.T) {
	mailer := NewMailer("re_test_key", "noreply@example.com", "Vixen Blog", "https://blog.example.com")
	if err := mailer.SendNewCommentNotification(NewCommentNotification{To: ""}); err != nil {
		t.Fatalf("empty recipient should be a no-op: %v", err)
	}
}
