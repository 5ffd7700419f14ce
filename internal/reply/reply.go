// Package reply turns a raw model completion into a tagged result.
//
// The model is asked to answer either in prose or with a bare SQL statement,
// and nothing else marks which one it chose. Classify is the only place that
// convention is interpreted.
package reply

import "strings"

type Kind string

const (
	KindText  Kind = "text"
	KindQuery Kind = "query"
)

const queryPrefix = "select"

// Reply is a classified model completion. Payload is the completion text, byte for byte.
type Reply struct {
	Kind    Kind
	Payload string
}

func (r Reply) IsQuery() bool { return r.Kind == KindQuery }

// Classify marks raw as a query when it starts with "select", ignoring case.
func Classify(raw string) Reply {
	if len(raw) >= len(queryPrefix) && strings.EqualFold(raw[:len(queryPrefix)], queryPrefix) {
		return Reply{Kind: KindQuery, Payload: raw}
	}
	return Reply{Kind: KindText, Payload: raw}
}
