package jsonrpc

import (
	"errors"
	"io"
)

var (
	_ MessageReaderWriter = (*FnMessageReaderWriter)(nil)
)

// ReaderWriter is a stream connection, messages are framed with a Content-Length header.
type ReaderWriter interface {
	io.Reader
	io.Writer
	io.Closer
}

// MessageReaderWriter is a connection transporting whole messages (e.g. websocket).
type MessageReaderWriter interface {
	//ReadMessage reads an entire message and returns it, the returned bytes should not be modified by the caller.
	ReadMessage() (msg []byte, err error)

	//WriteMessage writes an entire message, the written bytes should not modified by the implementation.
	WriteMessage(msg []byte) error

	io.Closer
}

type FnMessageReaderWriter struct {
	ReadMessageFn  func() (msg []byte, err error)
	WriteMessageFn func(msg []byte) error
	CloseFn        func() error
}

func (rw FnMessageReaderWriter) ReadMessage() (msg []byte, err error) {
	return rw.ReadMessageFn()
}

func (rw FnMessageReaderWriter) WriteMessage(msg []byte) error {
	return rw.WriteMessageFn(msg)
}

func (rw FnMessageReaderWriter) Close() error {
	if rw.CloseFn == nil {
		return nil
	}
	return rw.CloseFn()
}

// Conn is a ReaderWriter made of a separate reader and writer, closing it closes both.
type Conn struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func NewConn(reader io.ReadCloser, writer io.WriteCloser) *Conn {
	return &Conn{reader: reader, writer: writer}
}

func (c *Conn) Write(p []byte) (n int, err error) {
	return c.writer.Write(p)
}

func (c *Conn) Read(p []byte) (n int, err error) {
	return c.reader.Read(p)
}

func (c *Conn) Close() error {
	err1 := c.reader.Close()
	err2 := c.writer.Close()
	return errors.Join(err1, err2)
}
