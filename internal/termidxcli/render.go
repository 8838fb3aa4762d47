package termidxcli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"termidx/internal/model"
)

func renderMatches(w io.Writer, res model.QueryResult) {
	for _, m := range res.Matches {
		mod := time.UnixMilli(m.Modified).Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s:%d\t%s\t%s\n", m.Path, m.Line, m.LineType, mod)
	}
	if res.Truncated {
		fmt.Fprintf(w, "(showing %d of %d matches)\n", len(res.Matches), res.TotalMatches)
	}
}

func renderMatchesJSONL(w io.Writer, res model.QueryResult) error {
	enc := json.NewEncoder(w)
	for _, m := range res.Matches {
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}

func renderSignature(w io.Writer, sig model.Signature) {
	if sig.HeaderComments != "" {
		fmt.Fprintln(w, sig.HeaderComments)
		fmt.Fprintln(w)
	}
	for _, t := range sig.Types {
		fmt.Fprintf(w, "%s %s\t%s:%d\n", t.Kind, t.Name, sig.Path, t.Line)
	}
	for _, m := range sig.Methods {
		proto := m.Prototype
		if proto == "" {
			proto = m.Name
		}
		fmt.Fprintf(w, "%s\t%s:%d\n", proto, sig.Path, m.Line)
	}
}

func renderStats(w io.Writer, st model.Stats) {
	fmt.Fprintf(w, "files:       %d\n", st.Files)
	fmt.Fprintf(w, "lines:       %d\n", st.Lines)
	fmt.Fprintf(w, "items:       %d\n", st.Items)
	fmt.Fprintf(w, "occurrences: %d\n", st.Occurrences)
	fmt.Fprintf(w, "methods:     %d\n", st.Methods)
	fmt.Fprintf(w, "types:       %d\n", st.Types)
	fmt.Fprintf(w, "signatures:  %d\n", st.Signatures)
	fmt.Fprintf(w, "size:        %d bytes\n", st.SizeBytes)
}
