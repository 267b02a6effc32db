package docstore

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// docFileName is the single data file inside a document's directory.
const docFileName = "data.msgpack"

// Documents are serialized with msgpack: field types survive the round
// trip (strings, integers, floats, bools, nested maps and slices), and
// time.Time values use the msgpack timestamp extension so timestamps come
// back as time.Time without precision loss.

func encodeDocument(doc Document) ([]byte, error) {
	data, err := msgpack.Marshal(map[string]any(doc))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	return data, nil
}

func decodeDocument(data []byte) (Document, error) {
	var doc map[string]any

	err := msgpack.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return Document(doc), nil
}
