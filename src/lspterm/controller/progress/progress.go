package progress

import (
	"fmt"

	"github.com/uber/lspterm/src/lspterm/entity"
)

// Tracker holds the work done progress entries of every language server, keyed by token key.
// It is not safe for concurrent use; the event loop owns it.
type Tracker struct {
	servers map[entity.ServerID]map[string]*entity.ProgressEntry
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{servers: make(map[entity.ServerID]map[string]*entity.ProgressEntry)}
}

// Create starts tracking token for server, replacing any entry already held for it.
func (t *Tracker) Create(server entity.ServerID, token string) {
	t.entries(server)[token] = &entity.ProgressEntry{
		ServerID: server,
		Token:    token,
		Phase:    entity.ProgressBegin,
	}
}

// Update applies an incoming progress value.
// Present fields overwrite the stored ones and absent fields are kept. A begin resets the entry.
// An unknown token is created on the fly.
func (t *Tracker) Update(server entity.ServerID, token string, update entity.ProgressUpdate) {
	entries := t.entries(server)
	entry, ok := entries[token]
	if !ok || update.Phase == entity.ProgressBegin {
		entry = &entity.ProgressEntry{ServerID: server, Token: token}
		entries[token] = entry
	}

	entry.Phase = update.Phase
	if update.Title != nil {
		entry.Title = update.Title
	}
	if update.Message != nil {
		entry.Message = update.Message
	}
	if update.Percentage != nil {
		entry.Percentage = update.Percentage
	}
}

// End stops tracking token.
func (t *Tracker) End(server entity.ServerID, token string) {
	entries, ok := t.servers[server]
	if !ok {
		return
	}
	delete(entries, token)
	if len(entries) == 0 {
		delete(t.servers, server)
	}
}

// IsProgressing reports whether server has any tracked token.
func (t *Tracker) IsProgressing(server entity.ServerID) bool {
	return len(t.servers[server]) > 0
}

func (t *Tracker) entries(server entity.ServerID) map[string]*entity.ProgressEntry {
	entries, ok := t.servers[server]
	if !ok {
		entries = make(map[string]*entity.ProgressEntry)
		t.servers[server] = entries
	}
	return entries
}

// Status formats a progress value from whichever of its title, message and percentage are present.
// token is the label shown in brackets.
func Status(token string, update entity.ProgressUpdate) string {
	title, message, pct := update.Title, update.Message, update.Percentage
	switch {
	case title != nil && message != nil && pct != nil:
		return fmt.Sprintf("[%s] %d%% %s - %s", token, *pct, *title, *message)
	case title != nil && pct != nil:
		return fmt.Sprintf("[%s] %d%% %s", token, *pct, *title)
	case title != nil && message != nil:
		return fmt.Sprintf("[%s] %s - %s", token, *title, *message)
	case message != nil && pct != nil:
		return fmt.Sprintf("[%s] %d%% %s", token, *pct, *message)
	case title != nil:
		return fmt.Sprintf("[%s] %s", token, *title)
	case message != nil:
		return fmt.Sprintf("[%s] %s", token, *message)
	case pct != nil:
		return fmt.Sprintf("[%s] %d%%", token, *pct)
	default:
		return fmt.Sprintf("[%s]", token)
	}
}
