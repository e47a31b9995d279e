package terminal

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	highlightFormatter = "terminal16m"
	highlightStyle     = "dracula"
)

// writeArguments pretty-prints JSON arguments with syntax highlighting.
// Arguments that are not JSON are written verbatim.
func writeArguments(w io.Writer, args, indent string) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(args), indent, "  "); err != nil {
		_, err := io.WriteString(w, indent+args+"\n")
		return err
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, indent+pretty.String())
	if err != nil {
		return err
	}
	f := formatters.Get(highlightFormatter)
	if f == nil {
		f = formatters.Fallback
	}
	if err := f.Format(w, styles.Get(highlightStyle), it); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
