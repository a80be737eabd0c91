package document

import (
	"sync"

	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/internal/errors"
)

// Repository is an in-memory store of open documents keyed by id.
type Repository interface {
	Insert(doc *entity.Document) entity.DocumentID
	Get(id entity.DocumentID) (*entity.Document, error)
	GetByPath(path string) (*entity.Document, bool)
	GetByServer(id entity.ServerID) (*entity.Document, bool)
	All() []*entity.Document
	Count() int
}

type repository struct {
	mu       sync.Mutex
	memstore map[entity.DocumentID]*entity.Document
	order    []entity.DocumentID
	nextID   entity.DocumentID
	stats    tally.Scope
}

// New returns a repository to a key-value Document data store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[entity.DocumentID]*entity.Document),
		nextID:   1,
		stats:    stats,
	}
}

// Insert assigns the document a fresh id and stores it.
func (r *repository) Insert(doc *entity.Document) entity.DocumentID {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc.ID = r.nextID
	r.nextID++
	r.memstore[doc.ID] = doc
	r.order = append(r.order, doc.ID)
	r.stats.Gauge("open_documents").Update(float64(len(r.memstore)))
	return doc.ID
}

// Get returns the Document associated with the given id.
func (r *repository) Get(id entity.DocumentID) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.memstore[id]
	if !ok {
		return nil, &errors.DocumentIDNotFoundError{ID: id}
	}
	return doc, nil
}

// GetByPath returns the document backed by the given normalized path.
func (r *repository) GetByPath(path string) (*entity.Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		if doc := r.memstore[id]; doc.Path != "" && doc.Path == path {
			return doc, true
		}
	}
	return nil, false
}

// GetByServer returns the first opened document bound to the given language server.
func (r *repository) GetByServer(id entity.ServerID) (*entity.Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, docID := range r.order {
		if doc := r.memstore[docID]; doc.LanguageServer == id {
			return doc, true
		}
	}
	return nil, false
}

// All returns the documents in the order they were opened.
func (r *repository) All() []*entity.Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]*entity.Document, 0, len(r.order))
	for _, id := range r.order {
		docs = append(docs, r.memstore[id])
	}
	return docs
}

// Count returns the number of open documents.
func (r *repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore)
}
