package lsp

import (
	"io"

	"github.com/muesli/cancelreader"
	"github.com/sparvlang/sparv/internal/lsp/jsonrpc"
)

var _ jsonrpc.ReaderWriter = (*stdioConn)(nil)

type stdioConn struct {
	reader cancelreader.CancelReader
	writer io.Writer
}

func (c *stdioConn) Read(p []byte) (n int, err error) {
	return c.reader.Read(p)
}

func (c *stdioConn) Write(p []byte) (n int, err error) {
	return c.writer.Write(p)
}

// Close cancels the pending read, the underlying reader and writer are not closed.
func (c *stdioConn) Close() error {
	c.reader.Cancel()
	return c.reader.Close()
}
