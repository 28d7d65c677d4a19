package lsp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muesli/cancelreader"
	"github.com/rs/zerolog"
	"github.com/sparvlang/sparv/internal/config"
	"github.com/sparvlang/sparv/internal/lsp/defines"
	"github.com/sparvlang/sparv/internal/lsp/jsonrpc"

	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	SERVER_NAME              = config.APP_NAME + "-lsp"
	WEBSOCKET_SHUTDOWN_DELAY = 2 * time.Second
	LSP_LOG_SRC              = "lsp"
)

type Options struct {
	//documentation of native functions, DEFAULT_DOCS is used if nil
	Docs Docs

	//delay between the last change of a document and the publication of its diagnostics, diagnostics are
	//published synchronously if zero
	Debounce time.Duration

	Logger zerolog.Logger
}

// A Server is a language server, each client connection gets its own session and set of documents.
type Server struct {
	opts      Options
	rpcServer *jsonrpc.Server
	sessions  cmap.ConcurrentMap[string, *sessionState]
}

func NewServer(opts Options) *Server {
	if opts.Docs == nil {
		opts.Docs = DEFAULT_DOCS
	}
	opts.Logger = opts.Logger.With().Str("src", LSP_LOG_SRC).Logger()

	server := &Server{
		opts:     opts,
		sessions: cmap.New[*sessionState](),
	}

	server.rpcServer = jsonrpc.NewServer(jsonrpc.ServerConfig{
		Logger: opts.Logger,
		OnSession: func(session *jsonrpc.Session) error {
			server.sessions.Set(session.ID(), newSessionState(session))
			session.Logger().Info().Msg("new session")
			return nil
		},
		OnSessionClosed: func(session *jsonrpc.Session) {
			server.sessions.Remove(session.ID())
			session.Logger().Info().Msg("session closed")
		},
	})

	server.registerHandlers()
	return server
}

// ServeConn serves a stream connection, it returns when the connection is closed or after an exit notification.
func (s *Server) ServeConn(conn jsonrpc.ReaderWriter) {
	s.rpcServer.ConnComeIn(conn)
}

// ServeStdio serves a single client communicating through in and out, reading in is cancelled when the session
// ends.
func (s *Server) ServeStdio(in io.Reader, out io.Writer) error {
	reader, err := cancelreader.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to create stdin reader: %w", err)
	}

	s.ServeConn(&stdioConn{reader: reader, writer: out})
	return nil
}

// WebsocketHandler returns an HTTP handler upgrading requests to websocket connections, each connection is a
// session.
func (s *Server) WebsocketHandler() http.Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.opts.Logger.Debug().Err(err).Msg("failed to upgrade connection")
			return
		}
		s.rpcServer.MsgConnComeIn(newJsonRpcWebsocket(conn, s.opts.Logger))
	})
}

// ListenWebsocket accepts websocket connections on addr until ctx is done.
func (s *Server) ListenWebsocket(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           s.WebsocketHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), WEBSOCKET_SHUTDOWN_DELAY)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	s.opts.Logger.Info().Str("addr", listener.Addr().String()).Msg("start websocket server")

	err = httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) SessionCount() int {
	return s.rpcServer.SessionCount()
}

func (s *Server) capabilities() defines.ServerCapabilities {
	return defines.ServerCapabilities{
		TextDocumentSync: defines.TextDocumentSyncKindFull,
		CompletionProvider: &defines.CompletionOptions{
			TriggerCharacters: []string{"."},
		},
		HoverProvider: true,
		SemanticTokensProvider: &defines.SemanticTokensOptions{
			Legend: SEMANTIC_TOKEN_LEGEND,
			Full:   true,
		},
		DocumentFormattingProvider: true,
	}
}
