package widget

import (
	"github.com/intavia/visualquery/internal/domain/statistics"
	"github.com/intavia/visualquery/internal/domain/vocabulary"
)

// Status is the fetch state of widget data.
type Status string

// Fetch states.
const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

// NothingFound is the inline message shown when aggregates are unavailable.
const NothingFound = "nothing found"

// Data is the aggregate input of a widget as reported by the fetcher.
type Data struct {
	Status    Status
	Message   string
	Histogram statistics.Histogram
	Tree      *vocabulary.Node
	Kinds     statistics.KindCounts
}

// Loading is the data of a pending fetch.
func Loading() Data { return Data{Status: StatusLoading} }

// Failed is the data of a failed fetch.
func Failed(msg string) Data {
	if msg == "" {
		msg = NothingFound
	}
	return Data{Status: StatusError, Message: msg}
}

// Ready is the data of a widget that renders without aggregates.
func Ready() Data { return Data{Status: StatusSuccess} }

// OK reports a successful fetch.
func (d Data) OK() bool { return d.Status == StatusSuccess }
