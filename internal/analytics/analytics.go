package analytics

import (
	"fmt"
	"time"

	"retail-assistant/internal/reply"
	"retail-assistant/internal/storage"
)

// Digest summarises the chat log.
type Digest struct {
	Total     int       `json:"total"`
	Queries   int       `json:"queries"`
	Texts     int       `json:"texts"`
	NoReply   int       `json:"no_reply"`
	First     time.Time `json:"first,omitempty"`
	Last      time.Time `json:"last,omitempty"`
	Unparsed  int       `json:"unparsed_timestamps"`
	SinceDate string    `json:"since_date,omitempty"`
}

// Summarize counts turns by reply kind. When since is non-zero only turns at or after it are counted.
func Summarize(turns []storage.ChatTurn, since time.Time) Digest {
	d := Digest{}
	if !since.IsZero() {
		d.SinceDate = since.Format("2006-01-02")
	}
	for _, t := range turns {
		ts, err := time.Parse(time.RFC3339Nano, t.Timestamp)
		if err != nil {
			d.Unparsed++
			if !since.IsZero() {
				continue
			}
		} else {
			if !since.IsZero() && ts.Before(since) {
				continue
			}
			if d.First.IsZero() || ts.Before(d.First) {
				d.First = ts
			}
			if ts.After(d.Last) {
				d.Last = ts
			}
		}
		d.Total++
		switch {
		case t.Response == nil:
			d.NoReply++
		case reply.Classify(*t.Response).IsQuery():
			d.Queries++
		default:
			d.Texts++
		}
	}
	return d
}

func (d Digest) String() string {
	return fmt.Sprintf("turns=%d queries=%d texts=%d no_reply=%d", d.Total, d.Queries, d.Texts, d.NoReply)
}
