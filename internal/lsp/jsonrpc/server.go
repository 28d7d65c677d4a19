package jsonrpc

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

const SESSION_ID_LOG_FIELD_NAME = "session"

type MethodInfo struct {
	Name       string
	NewRequest func() interface{}
	Handler    func(ctx context.Context, req interface{}) (interface{}, error)
}

type Server struct {
	sessions    map[string]*Session
	methods     map[string]MethodInfo
	sessionLock sync.Mutex

	onSession       SessionCreationCallbackFn
	onSessionClosed func(*Session)

	logger zerolog.Logger
}

// Called before starting each new JSON RPC session, the session is not started if an error is returned.
type SessionCreationCallbackFn func(*Session) error

type ServerConfig struct {
	Logger          zerolog.Logger
	OnSession       SessionCreationCallbackFn
	OnSessionClosed func(*Session)
}

func NewServer(config ServerConfig) *Server {
	onSession := config.OnSession
	if onSession == nil {
		onSession = func(s *Session) error { return nil }
	}

	onSessionClosed := config.OnSessionClosed
	if onSessionClosed == nil {
		onSessionClosed = func(s *Session) {}
	}

	s := &Server{
		sessions:        make(map[string]*Session),
		methods:         make(map[string]MethodInfo),
		onSession:       onSession,
		onSessionClosed: onSessionClosed,
		logger:          config.Logger,
	}

	// Register Builtin
	s.RegisterMethod(CancelRequest())

	return s
}

func (s *Server) RegisterMethod(m MethodInfo) {
	s.methods[m.Name] = m
}

// ConnComeIn serves a stream connection, it returns when the session is closed.
func (s *Server) ConnComeIn(conn ReaderWriter) {
	session := s.newSession(conn, nil)
	if err := s.onSession(session); err != nil {
		session.logger.Err(err).Msg("session rejected")
		session.Close()
		return
	}
	session.Start()
}

// MsgConnComeIn serves a message connection, it returns when the session is closed.
func (s *Server) MsgConnComeIn(conn MessageReaderWriter) {
	session := s.newSession(nil, conn)
	if err := s.onSession(session); err != nil {
		session.logger.Err(err).Msg("session rejected")
		session.Close()
		return
	}
	session.Start()
}

func (s *Server) SessionCount() int {
	s.sessionLock.Lock()
	defer s.sessionLock.Unlock()
	return len(s.sessions)
}

func (s *Server) removeSession(session *Session) {
	s.sessionLock.Lock()
	_, ok := s.sessions[session.id]
	delete(s.sessions, session.id)
	s.sessionLock.Unlock()

	if ok {
		s.onSessionClosed(session)
	}
}

func (s *Server) newSession(conn ReaderWriter, msgConn MessageReaderWriter) *Session {
	s.sessionLock.Lock()
	defer s.sessionLock.Unlock()

	id := ulid.Make().String()
	logger := s.logger.With().Str(SESSION_ID_LOG_FIELD_NAME, id).Logger()

	session := newSession(id, s, conn, msgConn, logger)
	s.sessions[id] = session
	return session
}
