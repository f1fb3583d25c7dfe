package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"finbot-backend/internal/handlers"
	"finbot-backend/internal/models"
	"finbot-backend/internal/repository"
	"finbot-backend/internal/router"
)

// echoBot replies with canned markdown.
type echoBot struct {
	reply string
}

func (b *echoBot) Respond(ctx context.Context, userQuery string) string {
	if b.reply != "" {
		return b.reply
	}
	return "You asked: **" + userQuery + "**"
}

type testEnv struct {
	server   *httptest.Server
	chats    *repository.ChatRepo
	mediaDir string
	chartDir string
}

func newTestEnv(t *testing.T, bot handlers.Responder) *testEnv {
	t.Helper()
	dir := t.TempDir()
	chatDir := filepath.Join(dir, "chats")
	mediaDir := filepath.Join(dir, "media")
	chartDir := filepath.Join(dir, "charts")
	for _, d := range []string{chatDir, mediaDir, chartDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	chats := repository.NewChatRepo(chatDir)
	h := handlers.NewChatHandler(chats, bot, mediaDir, chartDir)
	srv := httptest.NewServer(router.New(h, 1000))
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, chats: chats, mediaDir: mediaDir, chartDir: chartDir}
}

// client returns an HTTP client with a cookie jar and no redirect following.
func client(t *testing.T) *http.Client {
	t.Helper()
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestHomeGetRendersWelcome(t *testing.T) {
	env := newTestEnv(t, &echoBot{})

	resp, err := http.Get(env.server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Welcome to FinanceBot") {
		t.Error("Fresh page should show the welcome block")
	}

	// A fresh session was created and handed out via cookie
	var chatCookie string
	for _, c := range resp.Cookies() {
		if c.Name == "chat_id" {
			chatCookie = c.Value
		}
	}
	if chatCookie == "" {
		t.Fatal("Expected a chat_id cookie")
	}
	if !env.chats.Exists(chatCookie) {
		t.Error("Cookie session should exist on disk")
	}
}

func TestChatTurnAppendsMessages(t *testing.T) {
	env := newTestEnv(t, &echoBot{})

	// First GET to obtain a session cookie
	resp, err := http.Get(env.server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	cookies := resp.Cookies()
	chatID := cookieValue(cookies, "chat_id")

	req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/",
		strings.NewReader(url.Values{"user_query": {"how much on groceries?"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()

	body := readBody(t, resp2)
	if !strings.Contains(body, "how much on groceries?") {
		t.Error("Page should echo the user bubble")
	}
	if !strings.Contains(body, "<b>how much on groceries?</b>") {
		t.Error("Page should include the rendered bot reply")
	}

	history := env.chats.LoadHistory(chatID)
	if len(history) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(history))
	}
	if history[0].Role != models.RoleUser || history[1].Role != models.RoleBot {
		t.Errorf("Unexpected roles: %+v", history)
	}
}

func TestChatTurnCollectsChart(t *testing.T) {
	env := newTestEnv(t, &echoBot{reply: "Here you go: *spending_chart.png*"})

	// Drop a fake chart where the tool would have written it
	if err := os.WriteFile(filepath.Join(env.chartDir, "spending_chart.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(env.server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	cookies := resp.Cookies()
	chatID := cookieValue(cookies, "chat_id")

	req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/",
		strings.NewReader(url.Values{"user_query": {"chart please"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()

	history := env.chats.LoadHistory(chatID)
	if len(history) != 2 || history[1].Image == nil {
		t.Fatalf("Expected bot message with image, got %+v", history)
	}
	if !strings.HasPrefix(*history[1].Image, "media/chart_") {
		t.Errorf("Unexpected image path %q", *history[1].Image)
	}

	// The chart moved out of the scratch dir into media
	if _, err := os.Stat(filepath.Join(env.chartDir, "spending_chart.png")); err == nil {
		t.Error("Scratch chart should have been moved")
	}
	moved := strings.TrimPrefix(*history[1].Image, "media/")
	if _, err := os.Stat(filepath.Join(env.mediaDir, moved)); err != nil {
		t.Errorf("Moved chart missing: %v", err)
	}
}

func TestPinChatRedirects(t *testing.T) {
	env := newTestEnv(t, &echoBot{})
	env.chats.SaveHistory("abc", []models.Message{})

	resp, err := client(t).Post(env.server.URL+"/pin_chat/abc", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/?chat_id=abc" {
		t.Errorf("Unexpected redirect %q", loc)
	}
	if ids := env.chats.PinnedIDs(); len(ids) != 1 || ids[0] != "abc" {
		t.Errorf("Expected [abc] pinned, got %v", ids)
	}
}

func TestDeleteChat(t *testing.T) {
	env := newTestEnv(t, &echoBot{})
	env.chats.SaveHistory("victim", []models.Message{})
	env.chats.TogglePin("victim")

	resp, err := client(t).Post(env.server.URL+"/delete_chat/victim", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Expected redirect to /, got %q", loc)
	}
	if env.chats.Exists("victim") {
		t.Error("Session should be deleted")
	}
	if len(env.chats.PinnedIDs()) != 0 {
		t.Error("Deleted session should be unpinned")
	}
}

func TestDeleteActiveChatStartsFresh(t *testing.T) {
	env := newTestEnv(t, &echoBot{})
	env.chats.SaveHistory("current", []models.Message{})

	req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/delete_chat/current", nil)
	req.AddCookie(&http.Cookie{Name: "chat_id", Value: "current"})

	resp, err := client(t).Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if loc := resp.Header.Get("Location"); loc != "/?new_chat=1" {
		t.Errorf("Expected redirect to /?new_chat=1, got %q", loc)
	}
}

func TestMedia(t *testing.T) {
	env := newTestEnv(t, &echoBot{})

	if err := os.WriteFile(filepath.Join(env.mediaDir, "chart_test.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(env.server.URL + "/media/chart_test.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	resp2, err := http.Get(env.server.URL + "/media/nope.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown media, got %d", resp2.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &echoBot{})

	resp, err := http.Get(env.server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("Unexpected health body %q", body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
