package jsonrpc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/muesli/cancelreader"
	"github.com/rs/zerolog"
)

const CONTENT_LENGTH_HEADER = "Content-Length"

var (
	ErrInvalidHeader = errors.New("invalid header")
	ErrSessionClosed = errors.New("session is closed")
)

type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

type executor struct {
	id     interface{}
	cancel context.CancelFunc
}

// A Session is a JSON RPC connection with a client. Notifications are handled in order by the reading goroutine,
// requests are handled concurrently.
type Session struct {
	id     string
	server *Server

	// Only one connection is non-nil
	conn    ReaderWriter
	reader  *bufio.Reader
	msgConn MessageReaderWriter

	ctx       context.Context
	cancelCtx context.CancelFunc

	executors    map[interface{}]*executor
	executorLock sync.Mutex
	writeLock    sync.Mutex
	closed       atomic.Bool

	logger zerolog.Logger
}

func newSession(id string, server *Server, conn ReaderWriter, msgConn MessageReaderWriter, logger zerolog.Logger) *Session {
	s := &Session{
		id:        id,
		server:    server,
		conn:      conn,
		msgConn:   msgConn,
		executors: make(map[interface{}]*executor),
		logger:    logger,
	}
	if conn != nil {
		s.reader = bufio.NewReader(conn)
	}
	s.ctx, s.cancelCtx = context.WithCancel(context.WithValue(context.Background(), sessionKey, s))
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Logger() *zerolog.Logger {
	return &s.logger
}

// Context returns a context that is cancelled when the session is closed.
func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

func (s *Session) Start() {
	for !s.closed.Load() {
		s.handle()
	}
}

func (s *Session) handle() {
	msg, err := s.readMessage()
	if err != nil {
		s.handleConnError(err)
		return
	}
	if msg == nil {
		return
	}

	req := RequestMessage{}
	if err := jsoniter.Unmarshal(msg, &req); err != nil {
		e := ParseError
		e.Data = err.Error()
		s.respond(nil, nil, e)
		return
	}

	s.logger.Debug().Interface("id", req.ID).Str("method", req.Method).RawJSON("params", nonEmptyJSON(req.Params)).Msg("request")
	s.handleRequest(req)
}

func (s *Session) readMessage() ([]byte, error) {
	if s.msgConn != nil {
		return s.msgConn.ReadMessage()
	}

	contentLength := -1

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if contentLength < 0 {
				continue
			}
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, line)
		}

		if strings.EqualFold(strings.TrimSpace(name), CONTENT_LENGTH_HEADER) {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: invalid content length %q", ErrInvalidHeader, value)
			}
			contentLength = n
		}
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *Session) handleRequest(req RequestMessage) {
	mtdInfo, ok := s.server.methods[req.Method]

	if !ok {
		if req.IsNotification() {
			s.logger.Debug().Str("method", req.Method).Msg("ignored notification")
			return
		}
		s.respond(req.ID, nil, MethodNotFound)
		return
	}

	reqArgs := mtdInfo.NewRequest()
	if len(req.Params) > 0 && string(req.Params) != "null" {
		if err := jsoniter.Unmarshal(req.Params, reqArgs); err != nil {
			if req.IsNotification() {
				s.logger.Err(err).Str("method", req.Method).Msg("invalid notification parameters")
				return
			}
			e := InvalidParams
			e.Data = err.Error()
			s.respond(req.ID, nil, e)
			return
		}
	}

	if req.IsNotification() {
		if _, err := mtdInfo.Handler(s.ctx, reqArgs); err != nil {
			s.logger.Err(err).Str("method", req.Method).Msg("notification handler failed")
		}
		return
	}

	s.execute(mtdInfo, req, reqArgs)
}

func (s *Session) execute(mtdInfo MethodInfo, req RequestMessage, args interface{}) {
	ctx, cancel := context.WithCancel(s.ctx)
	exec := &executor{
		id:     req.ID,
		cancel: cancel,
	}
	s.registerExecutor(exec)

	go func() {
		defer s.removeExecutor(exec)
		defer cancel()

		resp, err := mtdInfo.Handler(ctx, args)
		select {
		case <-ctx.Done():
			if !s.closed.Load() {
				s.respond(req.ID, nil, RequestCancelled)
			}
			return
		default:
		}
		s.respond(req.ID, resp, err)
	}()
}

func (s *Session) registerExecutor(executor *executor) {
	s.executorLock.Lock()
	defer s.executorLock.Unlock()
	s.executors[normalizeID(executor.id)] = executor
}

func (s *Session) removeExecutor(executor *executor) {
	s.executorLock.Lock()
	defer s.executorLock.Unlock()
	delete(s.executors, normalizeID(executor.id))
}

// cancelJob cancels the request with the given id, false is returned if the request is not running.
func (s *Session) cancelJob(id interface{}) bool {
	s.executorLock.Lock()
	exec, ok := s.executors[normalizeID(id)]
	s.executorLock.Unlock()

	if ok {
		exec.cancel()
	}
	return ok
}

// Notify sends a notification to the client.
func (s *Session) Notify(method string, params interface{}) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	rawParams, err := jsoniter.Marshal(params)
	if err != nil {
		return err
	}

	return s.write(NotificationMessage{
		BaseMessage: BaseMessage{Jsonrpc: JSONRPC_VERSION},
		Method:      method,
		Params:      rawParams,
	})
}

func (s *Session) respond(id interface{}, result interface{}, err error) {
	resp := ResponseMessage{
		BaseMessage: BaseMessage{Jsonrpc: JSONRPC_VERSION},
		ID:          id,
	}

	if err != nil {
		var respErr ResponseError
		if !errors.As(err, &respErr) {
			respErr = InternalError
			respErr.Data = err.Error()
		}
		resp.Error = &respErr
	} else {
		resp.Result = result
	}

	if err := s.write(resp); err != nil {
		s.handleConnError(err)
	}
}

func (s *Session) write(msg interface{}) error {
	res, err := jsoniter.Marshal(msg)
	if err != nil {
		return err
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	s.logger.Debug().RawJSON("message", res).Msg("write")

	if s.msgConn != nil {
		return s.msgConn.WriteMessage(res)
	}

	header := fmt.Sprintf("%s: %d\r\n\r\n", CONTENT_LENGTH_HEADER, len(res))
	if _, err := io.WriteString(s.conn, header); err != nil {
		return err
	}
	_, err = s.conn.Write(res)
	return err
}

func (s *Session) handleConnError(err error) {
	if isConnClosedError(err) {
		s.logger.Debug().Err(err).Msg("connection closed")
	} else {
		s.logger.Err(err).Msg("connection error")
	}
	s.Close()
}

// Close cancels the running requests, closes the connection and removes the session from the server.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.cancelCtx()

	func() {
		s.executorLock.Lock()
		defer s.executorLock.Unlock()
		for _, v := range s.executors {
			v.cancel()
		}
	}()

	var err error
	if s.conn != nil {
		err = s.conn.Close()
	} else {
		err = s.msgConn.Close()
	}
	if err != nil {
		s.logger.Debug().Err(err).Msg("close error")
	}

	s.server.removeSession(s)
}

func GetSession(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionKey).(*Session)
	return session
}

func isConnClosedError(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, cancelreader.ErrCanceled) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		websocket.IsUnexpectedCloseError(err)
}

// normalizeID makes numeric ids comparable, they are decoded as float64.
func normalizeID(id interface{}) interface{} {
	switch v := id.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return id
}

func nonEmptyJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
