package http

import (
	"strconv"
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/stress/config"
	"github.com/indigo-web/stress/errors"
	"github.com/indigo-web/stress/http"
	"github.com/indigo-web/stress/http/status"
	"github.com/indigo-web/stress/internal/requestgen"
	"github.com/indigo-web/stress/internal/tcp/dummy"
	"github.com/indigo-web/stress/router"
	"github.com/stretchr/testify/require"
)

func newServer(routes *router.Table) (*Server, *[]error) {
	var errs []error
	server := NewServer(config.Default(), routes, status.Default(), func(err error) {
		errs = append(errs, err)
	})

	return server, &errs
}

func hello(_ *http.Request, response *http.Response) (bool, error) {
	return true, response.String("hi")
}

func TestServer(t *testing.T) {
	t.Run("simple get", func(t *testing.T) {
		server, errs := newServer(router.NewTable().Get("/hello", hello))
		conn := dummy.NewConn("GET /hello HTTP/1.1\r\nHost: localhost\r\n\r\n")
		server.Serve(conn)

		require.Empty(t, *errs)
		require.True(t, conn.Closed())
		require.Equal(t, 1, conn.Closes())
		written := conn.Written()
		require.True(t, strings.HasPrefix(written, "HTTP/1.1 200 OK\r\n"), written)
		require.True(t, strings.HasSuffix(written, "\r\n\r\nhi"), written)
	})

	t.Run("request is visible to handlers", func(t *testing.T) {
		key, value := uniuri.New(), uniuri.NewLen(32)
		var (
			host, agent, got string
			remote           string
		)

		table := router.NewTable().Get("/", func(request *http.Request, _ *http.Response) (bool, error) {
			host, agent = strings.Clone(request.Host), strings.Clone(request.UserAgent)
			got = strings.Clone(request.Header(key))
			remote = request.IP().String()
			return true, nil
		})

		server, _ := newServer(table)
		server.Serve(dummy.NewConn(
			"GET / HTTP/1.1\r\nHost: example.com\r\nUser-Agent: test\r\n" + key + ": " + value + "\r\n\r\n",
		))

		require.Equal(t, "example.com", host)
		require.Equal(t, "test", agent)
		require.Equal(t, value, got)
		require.Equal(t, "127.0.0.1", remote)
	})

	t.Run("server is reusable", func(t *testing.T) {
		server, errs := newServer(router.NewTable().Get("/hello", hello))

		for range 10 {
			conn := dummy.NewConn("GET /hello HTTP/1.1\r\n\r\n")
			server.Serve(conn)
			require.True(t, strings.HasSuffix(conn.Written(), "hi"))
		}

		require.Empty(t, *errs)
	})

	t.Run("unhandled", func(t *testing.T) {
		server, errs := newServer(router.NewTable().Get("/hello", hello))
		conn := dummy.NewConn("GET /missing HTTP/1.1\r\n\r\n")
		server.Serve(conn)

		require.Empty(t, conn.Written())
		require.True(t, conn.Closed())
		require.Empty(t, *errs)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, raw := range []string{
			"GET /hello\r\n\r\n",
			"GET /hello HTTP/1.0\r\n\r\n",
			"GET /hello HTTP/1.1\r\nno colon\r\n\r\n",
		} {
			server, errs := newServer(router.NewTable().Get("/hello", hello))
			conn := dummy.NewConn(raw)
			server.Serve(conn)

			require.Empty(t, conn.Written())
			require.True(t, conn.Closed())
			require.Len(t, *errs, 1)
			require.Equal(t, errors.KindParse, errors.KindOf((*errs)[0]))
		}
	})

	t.Run("silent disconnect", func(t *testing.T) {
		server, errs := newServer(router.NewTable())
		conn := dummy.NewNopConn()
		server.Serve(conn)

		require.True(t, conn.Closed())
		require.Empty(t, *errs)
	})

	t.Run("truncated at line boundary", func(t *testing.T) {
		server, errs := newServer(router.NewTable().Get("/", hello))
		conn := dummy.NewConn("GET / HTTP/1.1\r\nHost: x\r\n")
		server.Serve(conn)

		require.Empty(t, conn.Written())
		require.True(t, conn.Closed())
		require.Len(t, *errs, 1)
		require.Equal(t, errors.KindIO, errors.KindOf((*errs)[0]))
	})

	t.Run("truncated", func(t *testing.T) {
		server, errs := newServer(router.NewTable())
		conn := dummy.NewConn("GET / HTTP/1.1\r\nHost: loc")
		server.Serve(conn)

		require.True(t, conn.Closed())
		require.Len(t, *errs, 1)
		require.Equal(t, errors.KindIO, errors.KindOf((*errs)[0]))
	})
}

func TestServer_Headers(t *testing.T) {
	for _, n := range []int{1, 5, 10, 50} {
		t.Run(strconv.Itoa(n)+" headers", func(t *testing.T) {
			want := requestgen.Headers(n)
			var got []string

			table := router.NewTable().Get("/", func(request *http.Request, _ *http.Response) (bool, error) {
				for key, value := range request.Headers.Pairs() {
					got = append(got, strings.Clone(key)+": "+strings.Clone(value))
				}

				return true, nil
			})

			server, errs := newServer(table)
			server.Serve(dummy.NewConn(string(requestgen.Generate("/", want))))
			require.Empty(t, *errs)

			var expected []string
			for key, value := range want.Pairs() {
				expected = append(expected, key+": "+value)
			}

			require.Equal(t, expected, got)
		})
	}

	t.Run("too many headers", func(t *testing.T) {
		server, errs := newServer(router.NewTable().Get("/", hello))
		conn := dummy.NewConn(string(requestgen.Generate("/", requestgen.Headers(51))))
		server.Serve(conn)

		require.Empty(t, conn.Written())
		require.Len(t, *errs, 1)
		require.ErrorIs(t, (*errs)[0], errors.ErrHeaderFieldsTooLarge)
	})
}

func TestServer_Errors(t *testing.T) {
	boom := errors.New("boom")

	fail := func(*http.Request, *http.Response) (bool, error) {
		return false, boom
	}

	t.Run("fallback", func(t *testing.T) {
		server, errs := newServer(router.NewTable().Get("/", fail))
		conn := dummy.NewConn("GET / HTTP/1.1\r\n\r\n")
		server.Serve(conn)

		written := conn.Written()
		require.True(t, strings.HasPrefix(written, "HTTP/1.1 500 Internal Server Error\r\n"), written)
		require.True(t, strings.HasSuffix(written, "Internal Server Error"), written)
		require.Len(t, *errs, 1)
		require.ErrorIs(t, (*errs)[0], boom)
	})

	t.Run("fallback disabled", func(t *testing.T) {
		server, errs := newServer(router.NewTable().Get("/", fail))
		server.cfg = config.Default()
		server.cfg.Fallback = false
		conn := dummy.NewConn("GET / HTTP/1.1\r\n\r\n")
		server.Serve(conn)

		require.Empty(t, conn.Written())
		require.True(t, conn.Closed())
		require.Len(t, *errs, 1)
	})

	t.Run("no fallback after headers", func(t *testing.T) {
		table := router.NewTable().Get("/", func(_ *http.Request, response *http.Response) (bool, error) {
			_ = response.String("partial")
			return false, boom
		})

		server, _ := newServer(table)
		conn := dummy.NewConn("GET / HTTP/1.1\r\n\r\n")
		server.Serve(conn)

		require.Equal(t, 1, strings.Count(conn.Written(), "HTTP/1.1"))
		require.True(t, strings.HasSuffix(conn.Written(), "partial"))
	})

	t.Run("error handled", func(t *testing.T) {
		table := router.NewTable().
			Get("/", fail).
			ErrorWare("*", "*", func(request *http.Request, response *http.Response) (bool, error) {
				if err := response.SetStatus(status.BadRequest); err != nil {
					return false, err
				}

				return true, response.String(request.Error.Error())
			})

		server, errs := newServer(table)
		conn := dummy.NewConn("GET / HTTP/1.1\r\n\r\n")
		server.Serve(conn)

		require.True(t, strings.HasPrefix(conn.Written(), "HTTP/1.1 400 Bad Request\r\n"))
		require.True(t, strings.HasSuffix(conn.Written(), "boom"))
		require.Empty(t, *errs)
	})

	t.Run("error handler fails", func(t *testing.T) {
		worse := errors.New("worse")
		table := router.NewTable().
			Get("/", fail).
			ErrorWare("*", "*", func(*http.Request, *http.Response) (bool, error) {
				return false, worse
			})

		server, errs := newServer(table)
		server.Serve(dummy.NewConn("GET / HTTP/1.1\r\n\r\n"))

		require.Len(t, *errs, 1)
		require.ErrorIs(t, (*errs)[0], worse)
	})

	t.Run("end closes once", func(t *testing.T) {
		table := router.NewTable().Get("/", func(_ *http.Request, response *http.Response) (bool, error) {
			return true, response.End()
		})

		server, _ := newServer(table)
		conn := dummy.NewConn("GET / HTTP/1.1\r\n\r\n")
		server.Serve(conn)

		require.Equal(t, 1, conn.Closes())
		require.True(t, strings.HasPrefix(conn.Written(), "HTTP/1.1 200 OK\r\n"))
	})
}
