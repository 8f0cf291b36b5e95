package loanbook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// Query evaluates a JSONPath expression over the JSON snapshot of loans, e.g.
// `$[?(@.status=="ACTIVE")].borrowerName`.
func Query(loans []*Loan, path string) (any, error) {
	var buf bytes.Buffer
	if err := EncodeLoans(&buf, loans); err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(buf.Bytes(), &jobj); err != nil {
		return nil, fmt.Errorf("cannot read loans back: %w", err)
	}
	v, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, invalid("query", "%q: %v", path, err)
	}
	return v, nil
}
