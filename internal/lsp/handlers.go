package lsp

import (
	"context"
	"fmt"

	"github.com/sparvlang/sparv/internal/config"
	"github.com/sparvlang/sparv/internal/lsp/defines"
	"github.com/sparvlang/sparv/internal/lsp/jsonrpc"
)

const (
	INITIALIZE_METHOD      = "initialize"
	INITIALIZED_METHOD     = "initialized"
	SHUTDOWN_METHOD        = "shutdown"
	EXIT_METHOD            = "exit"
	DID_OPEN_METHOD        = "textDocument/didOpen"
	DID_CHANGE_METHOD      = "textDocument/didChange"
	DID_CLOSE_METHOD       = "textDocument/didClose"
	COMPLETION_METHOD      = "textDocument/completion"
	HOVER_METHOD           = "textDocument/hover"
	SEMANTIC_TOKENS_METHOD = "textDocument/semanticTokens/full"
	FORMATTING_METHOD      = "textDocument/formatting"
)

type handlerFn[P any] func(ctx context.Context, state *sessionState, params *P) (interface{}, error)

// newMethod wraps a handler: the session state is retrieved and the lifecycle of the session is checked.
func newMethod[P any](s *Server, name string, fn handlerFn[P]) jsonrpc.MethodInfo {
	return jsonrpc.MethodInfo{
		Name: name,
		NewRequest: func() interface{} {
			return new(P)
		},
		Handler: func(ctx context.Context, req interface{}) (interface{}, error) {
			session := jsonrpc.GetSession(ctx)
			state, ok := s.sessions.Get(session.ID())
			if !ok {
				return nil, jsonrpc.InternalError
			}

			state.lock.Lock()
			initialized, shutdown := state.initialized, state.shutdown
			state.lock.Unlock()

			switch {
			case name == EXIT_METHOD:
			case shutdown:
				return nil, jsonrpc.InvalidRequest
			case !initialized && name != INITIALIZE_METHOD:
				return nil, jsonrpc.ServerNotInitialized
			}

			return fn(ctx, state, req.(*P))
		},
	}
}

func (s *Server) registerHandlers() {
	s.rpcServer.RegisterMethod(newMethod(s, INITIALIZE_METHOD, s.handleInitialize))
	s.rpcServer.RegisterMethod(newMethod(s, INITIALIZED_METHOD, s.handleInitialized))
	s.rpcServer.RegisterMethod(newMethod(s, SHUTDOWN_METHOD, s.handleShutdown))
	s.rpcServer.RegisterMethod(newMethod(s, EXIT_METHOD, s.handleExit))

	s.rpcServer.RegisterMethod(newMethod(s, DID_OPEN_METHOD, s.handleDidOpen))
	s.rpcServer.RegisterMethod(newMethod(s, DID_CHANGE_METHOD, s.handleDidChange))
	s.rpcServer.RegisterMethod(newMethod(s, DID_CLOSE_METHOD, s.handleDidClose))

	s.rpcServer.RegisterMethod(newMethod(s, COMPLETION_METHOD, func(ctx context.Context, state *sessionState, params *defines.CompletionParams) (interface{}, error) {
		return s.complete(state, params)
	}))
	s.rpcServer.RegisterMethod(newMethod(s, HOVER_METHOD, func(ctx context.Context, state *sessionState, params *defines.HoverParams) (interface{}, error) {
		return s.hover(state, params)
	}))
	s.rpcServer.RegisterMethod(newMethod(s, SEMANTIC_TOKENS_METHOD, func(ctx context.Context, state *sessionState, params *defines.SemanticTokensParams) (interface{}, error) {
		return s.semanticTokens(state, params)
	}))
	s.rpcServer.RegisterMethod(newMethod(s, FORMATTING_METHOD, s.handleFormatting))
}

func (s *Server) handleInitialize(ctx context.Context, state *sessionState, params *defines.InitializeParams) (interface{}, error) {
	logger := state.rpcSession.Logger()
	if params.ClientInfo != nil {
		logger.Info().Str("client", params.ClientInfo.Name).Msg("initialize")
	}

	state.lock.Lock()
	state.initialized = true
	state.lock.Unlock()

	return &defines.InitializeResult{
		Capabilities: s.capabilities(),
		ServerInfo: &defines.ServerInfo{
			Name:    SERVER_NAME,
			Version: config.VERSION,
		},
	}, nil
}

func (s *Server) handleInitialized(ctx context.Context, state *sessionState, params *defines.InitializedParams) (interface{}, error) {
	return nil, nil
}

func (s *Server) handleShutdown(ctx context.Context, state *sessionState, params *struct{}) (interface{}, error) {
	state.lock.Lock()
	state.shutdown = true
	state.lock.Unlock()
	return nil, nil
}

func (s *Server) handleExit(ctx context.Context, state *sessionState, params *struct{}) (interface{}, error) {
	state.rpcSession.Close()
	return nil, nil
}

func (s *Server) handleDidOpen(ctx context.Context, state *sessionState, params *defines.DidOpenTextDocumentParams) (interface{}, error) {
	doc := params.TextDocument
	if err := state.setDocument(doc.Uri, doc.Version, doc.Text); err != nil {
		return nil, err
	}

	s.publishDiagnostics(state, doc.Uri)
	return nil, nil
}

func (s *Server) handleDidChange(ctx context.Context, state *sessionState, params *defines.DidChangeTextDocumentParams) (interface{}, error) {
	if len(params.ContentChanges) == 0 {
		return nil, nil
	}

	//the synchronization is full: the last change contains the whole text
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if change.Range != nil {
		return nil, fmt.Errorf("incremental changes are not supported")
	}

	uri := params.TextDocument.Uri
	if err := state.setDocument(uri, params.TextDocument.Version, change.Text); err != nil {
		return nil, err
	}

	s.scheduleDiagnostics(state, uri)
	return nil, nil
}

func (s *Server) handleDidClose(ctx context.Context, state *sessionState, params *defines.DidCloseTextDocumentParams) (interface{}, error) {
	uri := params.TextDocument.Uri
	if err := state.removeDocument(uri); err != nil {
		return nil, err
	}

	return nil, state.rpcSession.Notify(PUBLISH_DIAGNOSTICS_METHOD, defines.PublishDiagnosticsParams{
		Uri:         uri,
		Diagnostics: []defines.Diagnostic{},
	})
}

func (s *Server) handleFormatting(ctx context.Context, state *sessionState, params *defines.DocumentFormattingParams) (interface{}, error) {
	text, _, err := state.getDocument(params.TextDocument.Uri)
	if err != nil {
		return nil, err
	}
	return FormattingEdits(text), nil
}
