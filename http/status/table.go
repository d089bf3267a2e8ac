package status

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"sync"

	json "github.com/json-iterator/go"
)

//go:embed status_codes.json
var embeddedTable []byte

// Table maps status codes to their reason phrases. It's never modified after construction,
// therefore may be freely shared among goroutines.
type Table struct {
	texts map[Code]string
}

// Parse reads a JSON object of the form {"200": "OK", ...} and builds a table out of it.
func Parse(r io.Reader) (*Table, error) {
	var raw map[string]string
	if err := json.ConfigDefault.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("status table: %w", err)
	}

	texts := make(map[Code]string, len(raw))
	for key, text := range raw {
		code, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("status table: bad code %q", key)
		}

		texts[Code(code)] = text
	}

	return &Table{texts: texts}, nil
}

// Default returns the table built from the embedded status codes list. It is built only once.
var Default = sync.OnceValue(func() *Table {
	table, err := Parse(bytes.NewReader(embeddedTable))
	if err != nil {
		panic(fmt.Errorf("BUG: %w", err))
	}

	return table
})

// Text returns a reason phrase for the code. Unknown codes result in an empty string.
func (t *Table) Text(code Code) string {
	return t.texts[code]
}

// Text is a shortcut for Default().Text(code).
func Text(code Code) string {
	return Default().Text(code)
}
