package diagnostics

import (
	"net/url"

	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/internal/protocol"
	"github.com/uber/lspterm/src/lspterm/mapper"
	lsp "go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the diagnostics controller.
var Module = fx.Options(
	fx.Provide(New),
)

// Controller applies published diagnostics to open documents.
type Controller interface {
	// Publish replaces the diagnostics of the document named in params.
	// Batches for documents that are not open are discarded.
	Publish(ed *editor.Editor, server entity.ServerID, params *lsp.PublishDiagnosticsParams)
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

type controller struct {
	logger *zap.SugaredLogger
	stats  tally.Scope
}

// New creates a new diagnostics controller.
func New(p Params) Controller {
	return &controller{
		logger: p.Logger.Named("diagnostics"),
		stats:  p.Stats.SubScope("diagnostics"),
	}
}

func (c *controller) Publish(ed *editor.Editor, server entity.ServerID, params *lsp.PublishDiagnosticsParams) {
	path, ok := documentPath(params.URI)
	if !ok {
		c.logger.Debugw("discarding diagnostics for non-file document", "uri", params.URI, "count", len(params.Diagnostics))
		return
	}
	doc, ok := ed.DocumentByPath(path)
	if !ok {
		c.logger.Debugw("discarding diagnostics for unopened document", "path", path, "count", len(params.Diagnostics))
		return
	}

	encoding := c.encoding(ed, doc.LanguageServer, server)
	m := protocol.NewTextOffsetMapper([]byte(doc.Text))

	diagnostics := make([]entity.Diagnostic, 0, len(params.Diagnostics))
	for _, d := range params.Diagnostics {
		diagnostic, err := translate(m, d, encoding)
		if err != nil {
			c.logger.Warnw("dropping diagnostic with unmappable range", "path", path, "range", d.Range, "error", err)
			c.stats.Counter("dropped").Inc(1)
			continue
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	if err := ed.SetDiagnostics(doc.ID, diagnostics); err != nil {
		c.logger.Warnw("applying diagnostics", "path", path, "error", err)
	}
}

// documentPath returns the local path of a file URI. Other schemes never name an open document.
func documentPath(u uri.URI) (string, bool) {
	parsed, err := url.ParseRequestURI(string(u))
	if err != nil || parsed.Scheme != uri.FileScheme {
		return "", false
	}
	return u.Filename(), true
}

func translate(m *protocol.TextOffsetMapper, d lsp.Diagnostic, encoding protocol.OffsetEncoding) (entity.Diagnostic, error) {
	start, err := m.EncodedPositionOffset(d.Range.Start, encoding)
	if err != nil {
		return entity.Diagnostic{}, err
	}
	end, err := m.EncodedPositionOffset(d.Range.End, encoding)
	if err != nil {
		return entity.Diagnostic{}, err
	}
	return entity.Diagnostic{
		Start:    start,
		End:      end,
		Line:     m.Line(start),
		Message:  d.Message,
		Severity: mapper.DiagnosticSeverityToEntity(d.Severity),
		Source:   d.Source,
	}, nil
}

// encoding returns the offset encoding of the document's server, else of the sender.
func (c *controller) encoding(ed *editor.Editor, bound, sender entity.ServerID) protocol.OffsetEncoding {
	for _, id := range []entity.ServerID{bound, sender} {
		if id == 0 {
			continue
		}
		if server, ok := ed.LanguageServer(id); ok {
			return server.OffsetEncoding()
		}
	}
	return protocol.UTF16
}
