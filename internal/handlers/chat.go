package handlers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"finbot-backend/internal/markdown"
	"finbot-backend/internal/models"
	"finbot-backend/internal/repository"
	"finbot-backend/internal/web"
)

const chatCookieName = "chat_id"

// Responder runs one chat turn and returns markdown. Satisfied by
// finbot.Engine; stubbed in tests.
type Responder interface {
	Respond(ctx context.Context, userQuery string) string
}

type ChatHandler struct {
	chats    *repository.ChatRepo
	bot      Responder
	mediaDir string
	chartDir string
}

func NewChatHandler(chats *repository.ChatRepo, bot Responder, mediaDir, chartDir string) *ChatHandler {
	return &ChatHandler{
		chats:    chats,
		bot:      bot,
		mediaDir: mediaDir,
		chartDir: chartDir,
	}
}

// Home serves the chat page. POST runs a chat turn first, then both methods
// render the full page; the page's script swaps the refreshed fragments in.
func (h *ChatHandler) Home(w http.ResponseWriter, r *http.Request) {
	var postChatID string
	if r.Method == http.MethodPost {
		postChatID = h.processMessage(w, r)
	}

	query := r.URL.Query()
	var chatID string
	switch {
	case query.Get("new_chat") == "1":
		chatID = h.newChat()
	case query.Get("chat_id") != "":
		chatID = query.Get("chat_id")
	case postChatID != "":
		chatID = postChatID
	default:
		chatID = cookieChatID(r)
		if chatID == "" {
			chatID = h.newChat()
		}
	}
	setChatCookie(w, chatID)

	h.renderPage(w, chatID)
}

// processMessage appends the user message and the bot's reply to the active
// session. Returns the session id it wrote to.
func (h *ChatHandler) processMessage(w http.ResponseWriter, r *http.Request) string {
	chatID := cookieChatID(r)
	if chatID == "" {
		chatID = h.newChat()
		setChatCookie(w, chatID)
	}

	userQuery := strings.TrimSpace(r.FormValue("user_query"))
	if userQuery == "" {
		return chatID
	}

	history := h.chats.LoadHistory(chatID)
	history = append(history, models.Message{Role: models.RoleUser, Text: userQuery})

	rendered := markdown.ToHTML(h.bot.Respond(r.Context(), userQuery))
	imagePath := h.collectChartImage(rendered)

	history = append(history, models.Message{
		Role:  models.RoleBot,
		Text:  rendered,
		Image: imagePath,
	})
	if err := h.chats.SaveHistory(chatID, history); err != nil {
		log.Printf("Error saving chat %s: %v", chatID, err)
	}
	return chatID
}

// collectChartImage moves a tool-generated chart from the scratch dir into
// the media dir under a unique name and returns its message-relative path.
func (h *ChatHandler) collectChartImage(rendered string) *string {
	name := markdown.ExtractImageFilename(rendered)
	if name == "" {
		return nil
	}
	src := filepath.Join(h.chartDir, name)
	if _, err := os.Stat(src); err != nil {
		return nil
	}

	newName := "chart_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ".png"
	dest := filepath.Join(h.mediaDir, newName)
	if err := os.Rename(src, dest); err != nil {
		log.Printf("Error moving chart image: %v", err)
		return nil
	}
	p := "media/" + newName
	return &p
}

func (h *ChatHandler) newChat() string {
	chatID := uuid.NewString()
	if err := h.chats.SaveHistory(chatID, []models.Message{}); err != nil {
		log.Printf("Error creating chat %s: %v", chatID, err)
	}
	return chatID
}

func (h *ChatHandler) renderPage(w http.ResponseWriter, chatID string) {
	pinnedSet := make(map[string]bool)
	for _, id := range h.chats.PinnedIDs() {
		pinnedSet[id] = true
	}

	var sessions []models.SessionEntry
	for _, id := range h.chats.ListSessions() {
		sessions = append(sessions, models.SessionEntry{
			ID:     id,
			Title:  h.chats.Title(id, pinnedSet[id]),
			Pinned: pinnedSet[id],
		})
	}

	data := models.PageData{
		ChatID:   chatID,
		History:  h.chats.LoadHistory(chatID),
		Sessions: sessions,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.ChatPage.Execute(w, data); err != nil {
		log.Printf("Error rendering chat page: %v", err)
	}
}

// PinChat toggles a session's pinned state and returns to it.
func (h *ChatHandler) PinChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	if _, err := h.chats.TogglePin(chatID); err != nil {
		log.Printf("Error toggling pin for %s: %v", chatID, err)
	}
	http.Redirect(w, r, "/?chat_id="+url.QueryEscape(chatID), http.StatusSeeOther)
}

// DeleteChat removes a session and its pin entry. Deleting the active session
// clears the cookie and starts fresh.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	if err := h.chats.Delete(chatID); err != nil {
		log.Printf("Error deleting chat %s: %v", chatID, err)
	}

	if cookieChatID(r) == chatID {
		clearChatCookie(w)
		http.Redirect(w, r, "/?new_chat=1", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Media serves generated chart PNGs.
func (h *ChatHandler) Media(w http.ResponseWriter, r *http.Request) {
	filename := markdown.SafeFilename(chi.URLParam(r, "filename"))
	path := filepath.Join(h.mediaDir, filename)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

func cookieChatID(r *http.Request) string {
	c, err := r.Cookie(chatCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func setChatCookie(w http.ResponseWriter, chatID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     chatCookieName,
		Value:    chatID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearChatCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     chatCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
