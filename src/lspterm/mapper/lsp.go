package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/uber/lspterm/src/lspterm/entity"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// RequestToPublishDiagnosticsParams maps the parameters from a jsonrpc2.Request into protocol.PublishDiagnosticsParams.
func RequestToPublishDiagnosticsParams(req jsonrpc2.Request) (*protocol.PublishDiagnosticsParams, error) {
	params := protocol.PublishDiagnosticsParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToShowMessageParams maps the parameters from a jsonrpc2.Request into protocol.ShowMessageParams.
func RequestToShowMessageParams(req jsonrpc2.Request) (*protocol.ShowMessageParams, error) {
	params := protocol.ShowMessageParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToLogMessageParams maps the parameters from a jsonrpc2.Request into protocol.LogMessageParams.
func RequestToLogMessageParams(req jsonrpc2.Request) (*protocol.LogMessageParams, error) {
	params := protocol.LogMessageParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToWorkDoneProgressCreateParams maps the parameters from a jsonrpc2.Request into protocol.WorkDoneProgressCreateParams.
func RequestToWorkDoneProgressCreateParams(req jsonrpc2.Request) (*protocol.WorkDoneProgressCreateParams, error) {
	params := protocol.WorkDoneProgressCreateParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// progressParams keeps the value raw; protocol.ProgressParams decodes it into an untyped map.
type progressParams struct {
	Token protocol.ProgressToken `json:"token"`
	Value json.RawMessage        `json:"value"`
}

// workDoneProgressValue is the union of begin, report and end payloads.
// Pointer fields distinguish absent from zero values, which the protocol structs cannot.
type workDoneProgressValue struct {
	Kind       protocol.WorkDoneProgressKind `json:"kind"`
	Title      *string                       `json:"title"`
	Message    *string                       `json:"message"`
	Percentage *uint32                       `json:"percentage"`
}

// RequestToProgress maps a $/progress notification into its token and work done progress update.
func RequestToProgress(req jsonrpc2.Request) (protocol.ProgressToken, entity.ProgressUpdate, error) {
	params := progressParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return protocol.ProgressToken{}, entity.ProgressUpdate{}, wrapErrParse(err)
	}

	value := workDoneProgressValue{}
	if err := json.Unmarshal(params.Value, &value); err != nil {
		return protocol.ProgressToken{}, entity.ProgressUpdate{}, wrapErrParse(err)
	}

	update := entity.ProgressUpdate{
		Message:    value.Message,
		Percentage: value.Percentage,
	}
	switch value.Kind {
	case protocol.WorkDoneProgressKindBegin:
		update.Phase = entity.ProgressBegin
		update.Title = value.Title
	case protocol.WorkDoneProgressKindReport:
		update.Phase = entity.ProgressReport
	case protocol.WorkDoneProgressKindEnd:
		update.Phase = entity.ProgressEnd
		update.Percentage = nil
	default:
		return protocol.ProgressToken{}, entity.ProgressUpdate{}, wrapErrParse(fmt.Errorf("unknown progress kind %q", value.Kind))
	}

	return params.Token, update, nil
}

// ProgressTokenKey identifies a progress token. A number token and a string token with the same text map to different keys.
func ProgressTokenKey(token protocol.ProgressToken) string {
	return fmt.Sprintf("%q", token)
}

// DiagnosticSeverityToEntity maps a wire severity to the editor's severity.
func DiagnosticSeverityToEntity(s protocol.DiagnosticSeverity) entity.Severity {
	switch s {
	case protocol.DiagnosticSeverityError:
		return entity.SeverityError
	case protocol.DiagnosticSeverityWarning:
		return entity.SeverityWarning
	case protocol.DiagnosticSeverityInformation:
		return entity.SeverityInfo
	case protocol.DiagnosticSeverityHint:
		return entity.SeverityHint
	default:
		return entity.SeverityNone
	}
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}
