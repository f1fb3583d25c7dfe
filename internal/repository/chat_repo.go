package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"finbot-backend/internal/markdown"
	"finbot-backend/internal/models"
)

const pinnedFileName = "pinned_chats.json"

// ChatRepo persists chat sessions as one JSON file per session plus a single
// ordered pin list. It is deliberately lock-free: the deployment is
// single-process and concurrent writes to the same session are accepted as
// last-writer-wins.
type ChatRepo struct {
	dir string
}

func NewChatRepo(dir string) *ChatRepo {
	return &ChatRepo{dir: dir}
}

func (r *ChatRepo) sessionPath(chatID string) string {
	return filepath.Join(r.dir, markdown.SafeFilename(chatID)+".json")
}

// SaveHistory writes the full message slice for a session.
func (r *ChatRepo) SaveHistory(chatID string, history []models.Message) error {
	if history == nil {
		history = []models.Message{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal chat history: %w", err)
	}
	if err := os.WriteFile(r.sessionPath(chatID), data, 0o644); err != nil {
		return fmt.Errorf("write chat file: %w", err)
	}
	return nil
}

// LoadHistory reads a session's messages. Missing or corrupt files degrade to
// an empty history rather than an error.
func (r *ChatRepo) LoadHistory(chatID string) []models.Message {
	data, err := os.ReadFile(r.sessionPath(chatID))
	if err != nil {
		return []models.Message{}
	}
	var history []models.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return []models.Message{}
	}
	return history
}

// Exists reports whether a session file is present on disk.
func (r *ChatRepo) Exists(chatID string) bool {
	_, err := os.Stat(r.sessionPath(chatID))
	return err == nil
}

// Delete removes the session file and drops the id from the pin list.
func (r *ChatRepo) Delete(chatID string) error {
	path := r.sessionPath(chatID)
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove chat file: %w", err)
		}
	}

	pinned := r.PinnedIDs()
	for i, id := range pinned {
		if id == chatID {
			pinned = append(pinned[:i], pinned[i+1:]...)
			return r.savePinned(pinned)
		}
	}
	return nil
}

// TogglePin pins an unpinned session (inserting at the front of the pin
// order) or unpins a pinned one. Returns the resulting pinned state.
func (r *ChatRepo) TogglePin(chatID string) (bool, error) {
	pinned := r.PinnedIDs()
	for i, id := range pinned {
		if id == chatID {
			pinned = append(pinned[:i], pinned[i+1:]...)
			return false, r.savePinned(pinned)
		}
	}
	pinned = append([]string{chatID}, pinned...)
	return true, r.savePinned(pinned)
}

// PinnedIDs returns the pin list, newest pin first. Read failures degrade to
// an empty list.
func (r *ChatRepo) PinnedIDs() []string {
	data, err := os.ReadFile(filepath.Join(r.dir, pinnedFileName))
	if err != nil {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return []string{}
	}
	return ids
}

func (r *ChatRepo) savePinned(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal pin list: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, pinnedFileName), data, 0o644); err != nil {
		return fmt.Errorf("write pin list: %w", err)
	}
	return nil
}

// ListSessions returns every session id: pinned sessions first in pin order,
// then the rest newest-modified first.
func (r *ChatRepo) ListSessions() []string {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return []string{}
	}

	present := make(map[string]bool)
	type unpinnedEntry struct {
		id      string
		modTime int64
	}
	var unpinned []unpinnedEntry

	pinnedSet := make(map[string]bool)
	pinnedOrder := r.PinnedIDs()
	for _, id := range pinnedOrder {
		pinnedSet[id] = true
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == pinnedFileName {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		present[id] = true
		if pinnedSet[id] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		unpinned = append(unpinned, unpinnedEntry{id: id, modTime: info.ModTime().UnixNano()})
	}

	sort.Slice(unpinned, func(i, j int) bool {
		return unpinned[i].modTime > unpinned[j].modTime
	})

	ids := make([]string, 0, len(present))
	for _, id := range pinnedOrder {
		if present[id] {
			ids = append(ids, id)
		}
	}
	for _, e := range unpinned {
		ids = append(ids, e.id)
	}
	return ids
}

// Title derives a sidebar title from the first user message. Pinned rows get
// a tighter truncation to leave room for the pin marker.
func (r *ChatRepo) Title(chatID string, pinned bool) string {
	limit := 20
	if pinned {
		limit = 10
	}
	for _, msg := range r.LoadHistory(chatID) {
		if msg.Role == models.RoleUser && msg.Text != "" {
			runes := []rune(msg.Text)
			if len(runes) > limit {
				return string(runes[:limit]) + "..."
			}
			return msg.Text
		}
	}
	return "New Chat"
}
