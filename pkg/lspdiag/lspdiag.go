// Package lspdiag bridges the engine to a Language Server Protocol
// client: it runs a grammar over a document's text on every change and
// republishes ast.ParseError as LSP diagnostics. This is exactly the
// "rich-error tree formatting" / external tool spec.md §1 calls out of
// scope for the core — a thin layer above the core's boundary, built on
// the two RPC/LSP-typed dependencies the teacher already carries for its
// own LSP command.
package lspdiag

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/parsanol/peg/pkg/ast"
	"github.com/parsanol/peg/pkg/diag"
	"github.com/parsanol/peg/pkg/grammar"
	"github.com/parsanol/peg/pkg/interp"
)

// Handler runs Grammar over each changed document and publishes the
// resulting diagnostics (empty on a clean parse). It implements
// jsonrpc2.Handler directly, the same shape the teacher's own LSP
// plumbing uses rather than wrapping requests in an intermediate router.
type Handler struct {
	Grammar *grammar.Grammar
	Limits  grammar.Limits
	Logger  *log.Logger

	docs map[lsp.DocumentURI]string
}

// NewHandler returns a Handler ready to serve textDocument/didOpen and
// textDocument/didChange notifications for g.
func NewHandler(g *grammar.Grammar, limits grammar.Limits, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{Grammar: g, Limits: limits, Logger: logger, docs: map[lsp.DocumentURI]string{}}
}

// Handle implements jsonrpc2.Handler.
func (h *Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	switch req.Method {
	case "textDocument/didOpen":
		var p lsp.DidOpenTextDocumentParams
		if err := json.Unmarshal(*req.Params, &p); err != nil {
			h.Logger.Printf("lspdiag: didOpen: %v", err)
			return
		}
		h.docs[p.TextDocument.URI] = p.TextDocument.Text
		h.publish(ctx, conn, p.TextDocument.URI)

	case "textDocument/didChange":
		var p lsp.DidChangeTextDocumentParams
		if err := json.Unmarshal(*req.Params, &p); err != nil {
			h.Logger.Printf("lspdiag: didChange: %v", err)
			return
		}
		if len(p.ContentChanges) > 0 {
			// Whole-document sync only, matching the minimal sync mode
			// the engine's own interpreter needs (it has no incremental
			// reparse; every change reruns Parse from scratch).
			h.docs[p.TextDocument.URI] = p.ContentChanges[len(p.ContentChanges)-1].Text
		}
		h.publish(ctx, conn, p.TextDocument.URI)

	case "textDocument/didClose":
		var p lsp.DidCloseTextDocumentParams
		if err := json.Unmarshal(*req.Params, &p); err == nil {
			delete(h.docs, p.TextDocument.URI)
		}
	}
}

func (h *Handler) publish(ctx context.Context, conn *jsonrpc2.Conn, uri lsp.DocumentURI) {
	text := h.docs[uri]
	it, err := interp.New(h.Grammar, h.Limits, h.Logger)
	if err != nil {
		h.Logger.Printf("lspdiag: grammar invalid: %v", err)
		return
	}
	_, perr := it.Parse(text)

	diags := []lsp.Diagnostic{}
	if pe, ok := perr.(*ast.ParseError); ok {
		diags = append(diags, toDiagnostic(text, pe))
	}
	params := lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diags}
	if err := conn.Notify(ctx, "textDocument/publishDiagnostics", params); err != nil {
		h.Logger.Printf("lspdiag: publish: %v", err)
	}
}

func toDiagnostic(text string, perr *ast.ParseError) lsp.Diagnostic {
	pos := 0
	switch perr.Kind {
	case ast.ErrFailed, ast.ErrIncomplete, ast.ErrRecursionLimitExceeded:
		pos = perr.Position
	}
	p := diag.Locate(text, pos)
	lspPos := lsp.Position{Line: p.Line - 1, Character: p.Column - 1}
	sev := lsp.Error
	return lsp.Diagnostic{
		Range:    lsp.Range{Start: lspPos, End: lspPos},
		Severity: sev,
		Source:   "peg",
		Message:  perr.Error(),
	}
}
