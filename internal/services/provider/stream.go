package provider

import "strings"

// ChunkStream yields incremental text fragments of a streamed completion
type ChunkStream interface {
	Next() bool
	Current() string
	Err() error
}

// collectChunks concatenates fragments in delivery order until the stream
// ends. On failure it returns the text received so far with the error.
func collectChunks(s ChunkStream) (string, error) {
	var sb strings.Builder
	for s.Next() {
		sb.WriteString(s.Current())
	}
	return sb.String(), s.Err()
}
