package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dhamidi/groovyast/groovy"
	"github.com/dhamidi/groovyast/project"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "groovyast"

// LSPServer publishes syntax diagnostics for Groovy files as they are
// opened, edited and saved.
type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
	log      commonlog.Logger
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
		log:     commonlog.GetLogger("groovyast.lsp"),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	proj, err := project.LoadFrom(rootDir)
	if err != nil {
		ls.log.Errorf("loading project at %s: %s", rootDir, err)
		proj = &project.Project{RootDir: rootDir, Config: project.DefaultConfig()}
	}
	ls.codebase = New(proj)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	infos, err := ls.codebase.ScanAll(context.Background())
	if err != nil {
		ls.log.Errorf("scan: %s", err)
		return nil
	}
	for _, info := range infos {
		if len(info.Problems()) > 0 {
			ls.publish(ctx, pathToURI(info.Path), info)
		}
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	info := ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publish(ctx, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			info := ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publish(ctx, params.TextDocument.URI, info)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if _, err := ls.codebase.ScanFile(path); err != nil {
		ls.codebase.RemoveFile(path)
		ls.clear(ctx, params.TextDocument.URI)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	var info *FileInfo
	if params.Text != nil {
		info = ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if info, err = ls.codebase.ScanFile(path); err != nil {
		ls.log.Errorf("%s: %s", path, err)
		return nil
	}
	ls.publish(ctx, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) publish(ctx *glsp.Context, uri protocol.DocumentUri, info *FileInfo) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toProtocolDiagnostics(info.Problems()),
	})
}

func (ls *LSPServer) clear(ctx *glsp.Context, uri protocol.DocumentUri) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
}

// toProtocolDiagnostics converts 1-based builder positions to the 0-based
// positions of the protocol. Each range covers a single character.
func toProtocolDiagnostics(diags []groovy.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	source := lsName
	for _, d := range diags {
		line := protocol.UInteger(max(d.Line-1, 0))
		char := protocol.UInteger(max(d.Column-1, 0))
		severity := protocol.DiagnosticSeverityError
		if d.Severity == groovy.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: char},
				End:   protocol.Position{Line: line, Character: char + 1},
			},
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
