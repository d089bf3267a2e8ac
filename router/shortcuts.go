package router

import "github.com/indigo-web/stress/http/method"

// Get is a shortcut for registering GET-requests.
func (t *Table) Get(path string, handler Handler) *Table {
	return t.Register(method.GET, path, handler)
}

// Head is a shortcut for registering HEAD-requests.
func (t *Table) Head(path string, handler Handler) *Table {
	return t.Register(method.HEAD, path, handler)
}

// Post is a shortcut for registering POST-requests.
func (t *Table) Post(path string, handler Handler) *Table {
	return t.Register(method.POST, path, handler)
}

// Put is a shortcut for registering PUT-requests.
func (t *Table) Put(path string, handler Handler) *Table {
	return t.Register(method.PUT, path, handler)
}

// Delete is a shortcut for registering DELETE-requests.
func (t *Table) Delete(path string, handler Handler) *Table {
	return t.Register(method.DELETE, path, handler)
}

// Options is a shortcut for registering OPTIONS-requests.
func (t *Table) Options(path string, handler Handler) *Table {
	return t.Register(method.OPTIONS, path, handler)
}

// Patch is a shortcut for registering PATCH-requests.
func (t *Table) Patch(path string, handler Handler) *Table {
	return t.Register(method.PATCH, path, handler)
}
