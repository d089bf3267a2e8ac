package static

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/indigo-web/stress/http"
	"github.com/indigo-web/stress/http/status"
	"github.com/indigo-web/stress/router"
)

const (
	index    = "index.html"
	notFound = "Not Found"
)

// Serve returns a handler responding with files from the root directory. The request path
// is joined onto the root, where / and directories resolve to their index.html. Paths
// trying to escape the root and missing files result in 404 Not Found. The request is
// always reported as handled, unless writing the response failed.
func Serve(root string) router.Handler {
	root = filepath.Clean(root)

	return func(request *http.Request, response *http.Response) (bool, error) {
		return serve(root, request.Path, response)
	}
}

// Mount works the same way as Serve, however only requests with the path starting with the
// prefix are handled, and the prefix is stripped before joining onto the root. Other
// requests are passed further.
func Mount(prefix, root string) router.Handler {
	prefix = strings.TrimSuffix(prefix, "/")
	root = filepath.Clean(root)

	return func(request *http.Request, response *http.Response) (bool, error) {
		rest, found := strings.CutPrefix(request.Path, prefix)
		if !found || (len(rest) > 0 && rest[0] != '/' && rest[0] != '?') {
			return false, nil
		}

		return serve(root, rest, response)
	}
}

func serve(root, path string, response *http.Response) (bool, error) {
	path, _, _ = strings.Cut(path, "?")

	file, ok := resolve(root, path)
	if !ok {
		return respondNotFound(response)
	}

	stat, err := os.Stat(file)
	if err != nil {
		return respondNotFound(response)
	}

	if stat.IsDir() {
		file = filepath.Join(file, index)
		if stat, err = os.Stat(file); err != nil || stat.IsDir() {
			return respondNotFound(response)
		}
	}

	if err = response.SendFile(file); err != nil {
		return false, err
	}

	return true, nil
}

// resolve joins the path onto the root. False is returned if the path contains
// parent-directory segments or the result lies outside the root.
func resolve(root, path string) (string, bool) {
	if !isSafe(path) {
		return "", false
	}

	file := filepath.Join(root, filepath.FromSlash(path))
	if file != root && !strings.HasPrefix(file, root+string(filepath.Separator)) {
		return "", false
	}

	return file, true
}

// isSafe checks for path traversal (basically - double dots)
func isSafe(path string) bool {
	for _, segment := range strings.FieldsFunc(path, isSeparator) {
		if segment == ".." {
			return false
		}
	}

	return true
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

func respondNotFound(response *http.Response) (bool, error) {
	if err := response.SetStatus(status.NotFound); err != nil {
		return false, err
	}

	if err := response.String(notFound); err != nil {
		return false, err
	}

	return true, nil
}
