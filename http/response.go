package http

import (
	"io"
	"net"
	"os"
	"strconv"

	"github.com/indigo-web/stress/config"
	"github.com/indigo-web/stress/errors"
	"github.com/indigo-web/stress/http/mime"
	"github.com/indigo-web/stress/http/status"
	"github.com/indigo-web/stress/kv"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

const protocol = "HTTP/1.1"

type state uint8

const (
	fresh state = iota
	headersSent
	bodySent
)

// Response accumulates the status and headers of a single response and writes them into the
// connection exactly once, right before the body. The body itself may be sent only once, too.
// Every mutation after that results in errors.ErrAlreadySent.
//
// A Response is owned by a single goroutine and must not be shared.
type Response struct {
	code    status.Code
	reason  string
	headers *kv.Storage
	state   state
	closed  bool
	conn    net.Conn
	table   *status.Table
	chunk   []byte
	head    []byte
}

// NewResponse returns a fresh response writing into the conn. The buff is used as a scratch
// space for files and streams. If it's empty, one of the cfg.Response.FileChunkSize size will
// be allocated on demand.
func NewResponse(conn net.Conn, table *status.Table, cfg *config.Config, buff []byte) *Response {
	headers := kv.NewFromMap(cfg.Headers.Default)
	if !headers.Has("content-type") {
		headers.Set("content-type", cfg.Response.DefaultContentType)
	}

	if len(buff) == 0 {
		buff = make([]byte, cfg.Response.FileChunkSize)
	}

	return &Response{
		code:    status.OK,
		reason:  table.Text(status.OK),
		headers: headers,
		conn:    conn,
		table:   table,
		chunk:   buff,
	}
}

// SetHeader sets the header value, overriding the previous one if any.
func (r *Response) SetHeader(key, value string) error {
	if r.state != fresh {
		return errors.ErrAlreadySent
	}

	r.headers.Set(key, value)

	return nil
}

// SetStatus sets the status code and the corresponding reason phrase. Unknown codes get an
// empty reason phrase.
func (r *Response) SetStatus(code status.Code) error {
	if r.state != fresh {
		return errors.ErrAlreadySent
	}

	r.code = code
	r.reason = r.table.Text(code)

	return nil
}

// Send writes the headers and the body. Content-Length isn't set implicitly, so either the
// caller sets it or the client relies on the connection close.
func (r *Response) Send(body []byte) error {
	if r.state != fresh {
		return errors.ErrAlreadySent
	}

	head := r.renderHeaders()
	r.state = bodySent
	buffs := net.Buffers{head, body}
	_, err := buffs.WriteTo(r.conn)

	return errors.IO(err)
}

// String is the same as Send, but accepts a string.
func (r *Response) String(body string) error {
	return r.Send(uf.S2B(body))
}

// SendFile writes the file as the response body, setting Content-Length and Content-Type
// (inferred from the file extension) implicitly. If the file can't be opened, nothing is
// written, so the response can still be used.
func (r *Response) SendFile(path string) error {
	if r.state != fresh {
		return errors.ErrAlreadySent
	}

	fd, err := os.Open(path)
	if err != nil {
		return errors.IO(err)
	}

	defer fd.Close()

	stat, err := fd.Stat()
	if err != nil {
		return errors.IO(err)
	}

	if stat.IsDir() {
		return errors.IO(&os.PathError{Op: "open", Path: path, Err: os.ErrInvalid})
	}

	r.headers.
		Set("content-length", strconv.FormatInt(stat.Size(), 10)).
		Set("content-type", mime.ByPath(path))

	return r.stream(fd)
}

// Stream writes everything the reader produces until io.EOF as the response body.
func (r *Response) Stream(reader io.Reader) error {
	if r.state != fresh {
		return errors.ErrAlreadySent
	}

	return r.stream(reader)
}

// JSON serializes the model and sends it with application/json content type.
func (r *Response) JSON(model any) error {
	if r.state != fresh {
		return errors.ErrAlreadySent
	}

	body, err := json.ConfigDefault.Marshal(model)
	if err != nil {
		return err
	}

	r.headers.
		Set("content-type", mime.JSON).
		Set("content-length", strconv.Itoa(len(body)))

	return r.Send(body)
}

// End flushes the headers unless they were already sent and closes the connection. Calling
// it repeatedly doesn't re-send anything, but tries to close the connection again.
func (r *Response) End() error {
	var err error
	if r.state == fresh {
		err = r.flush()
	}

	r.closed = true
	if closeErr := r.conn.Close(); err == nil {
		err = closeErr
	}

	return errors.IO(err)
}

// Code returns the current status code.
func (r *Response) Code() status.Code {
	return r.code
}

// Reason returns the current reason phrase.
func (r *Response) Reason() string {
	return r.reason
}

// Header returns the current header value or empty string.
func (r *Response) Header(key string) string {
	return r.headers.Value(key)
}

func (r *Response) HeadersSent() bool {
	return r.state >= headersSent
}

func (r *Response) BodySent() bool {
	return r.state == bodySent
}

// Closed reports whether End was called.
func (r *Response) Closed() bool {
	return r.closed
}

func (r *Response) stream(reader io.Reader) error {
	if err := r.flush(); err != nil {
		return err
	}

	r.state = bodySent

	for {
		n, err := reader.Read(r.chunk)
		if n > 0 {
			if _, werr := r.conn.Write(r.chunk[:n]); werr != nil {
				return errors.IO(werr)
			}
		}

		switch err {
		case nil:
		case io.EOF:
			return nil
		default:
			return errors.IO(err)
		}
	}
}

func (r *Response) flush() error {
	head := r.renderHeaders()
	r.state = headersSent
	_, err := r.conn.Write(head)

	return errors.IO(err)
}

// renderHeaders serializes the status line and the headers. Must be called at most once.
func (r *Response) renderHeaders() []byte {
	buff := append(r.head[:0], protocol...)
	buff = append(buff, ' ')
	buff = strconv.AppendUint(buff, uint64(r.code), 10)
	buff = append(buff, ' ')
	buff = append(buff, r.reason...)
	buff = append(buff, '\r', '\n')

	for key, value := range r.headers.Pairs() {
		buff = append(buff, key...)
		buff = append(buff, ':', ' ')
		buff = append(buff, value...)
		buff = append(buff, '\r', '\n')
	}

	r.head = append(buff, '\r', '\n')

	return r.head
}
