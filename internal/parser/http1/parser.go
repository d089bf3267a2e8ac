package http1

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"io"

	"github.com/indigo-web/stress/config"
	"github.com/indigo-web/stress/errors"
	"github.com/indigo-web/stress/http"
	"github.com/indigo-web/stress/internal/parser"
	"github.com/indigo-web/utils/arena"
	"github.com/indigo-web/utils/uf"
)

const supportedProtocol = "HTTP/1.1"

var _ parser.RequestParser = new(Parser)

// Parser reads request heads line by line. Method, path, protocol, header keys and values
// are zero-copy strings pointing into parser-owned arenas, which are reused on every call,
// so a Parser must be used by a single goroutine and requests must not outlive the next call.
type Parser struct {
	requestLine *arena.Arena[byte]
	headers     *arena.Arena[byte]
	maxHeaders  int
}

func NewParser(cfg *config.Config) *Parser {
	return &Parser{
		requestLine: arena.NewArena[byte](
			cfg.URI.RequestLineSize.Default,
			cfg.URI.RequestLineSize.Maximal,
		),
		headers: arena.NewArena[byte](
			cfg.Headers.Space.Default,
			cfg.Headers.Space.Maximal,
		),
		maxHeaders: cfg.Headers.Number.Maximal,
	}
}

// Parse reads the request line and the headers up to the first empty line. No body is read.
func (p *Parser) Parse(r *bufio.Reader, request *http.Request) error {
	p.requestLine.Clear()
	p.headers.Clear()

	line, err := readLine(r, p.requestLine, errors.ErrRequestLineTooLong, true)
	if err != nil {
		return err
	}

	if err = parseRequestLine(line, request); err != nil {
		return err
	}

	for headersNumber := 0; ; headersNumber++ {
		line, err = readLine(r, p.headers, errors.ErrHeaderFieldsTooLarge, false)
		if err != nil {
			return err
		}

		if len(line) == 0 {
			break
		}

		if headersNumber >= p.maxHeaders {
			return errors.ErrHeaderFieldsTooLarge
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return errors.Parse(errors.ErrMalformedHeader, string(line))
		}

		key := uf.B2S(line[:colon])
		value := uf.B2S(bytes.TrimSpace(line[colon+1:]))
		request.Headers.Set(key, value)
	}

	request.Host = request.Headers.Value("Host")
	request.UserAgent = request.Headers.Value("User-Agent")

	return nil
}

func parseRequestLine(line []byte, request *http.Request) error {
	if bytes.Count(line, []byte{' '}) != 2 {
		return errors.Parse(errors.ErrMalformedRequestLine, string(line))
	}

	sp := bytes.IndexByte(line, ' ')
	method, rest := line[:sp], line[sp+1:]
	sp = bytes.IndexByte(rest, ' ')
	path, proto := rest[:sp], rest[sp+1:]

	if len(method) == 0 || len(path) == 0 || len(proto) == 0 {
		return errors.Parse(errors.ErrMalformedRequestLine, string(line))
	}

	if uf.B2S(proto) != supportedProtocol {
		return errors.Parse(errors.ErrUnsupportedVersion, string(proto))
	}

	request.Method = uf.B2S(method)
	request.Path = uf.B2S(path)
	request.Protocol = supportedProtocol

	return nil
}

// readLine reads a single LF- or CRLF-terminated line into the arena and returns it without
// the terminator. If the line doesn't fit into the arena, tooLong is returned. A bare io.EOF
// is reported only if nothing was read and the line is the first one (eofOK), any other EOF
// is io.ErrUnexpectedEOF.
func readLine(r *bufio.Reader, into *arena.Arena[byte], tooLong error, eofOK bool) ([]byte, error) {
	for {
		chunk, err := r.ReadSlice('\n')
		if !into.Append(chunk...) {
			return nil, tooLong
		}

		switch {
		case err == nil:
			line := into.Finish()
			line = line[:len(line)-1]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}

			return line, nil
		case stderrors.Is(err, bufio.ErrBufferFull):
		case stderrors.Is(err, io.EOF) && (!eofOK || into.SegmentLength() > 0):
			return nil, errors.IO(io.ErrUnexpectedEOF)
		default:
			return nil, errors.IO(err)
		}
	}
}
