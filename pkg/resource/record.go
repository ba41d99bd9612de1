package resource

import (
	"encoding/json"
	"fmt"
)

// Record is the serialized form of a resource.
type Record struct {
	Type    string          `json:"type"`
	Charset string          `json:"charset"`
	Headers *Headers        `json:"headers"`
	Data    json.RawMessage `json:"data"`
}

// Marshal serializes a resource into a self-describing record.
func Marshal(r Resource) ([]byte, error) {
	data, err := r.MarshalData()
	if err != nil {
		return nil, err
	}
	return json.Marshal(Record{
		Type:    r.ContentType(),
		Charset: r.Charset(),
		Headers: r.Headers(),
		Data:    data,
	})
}

// Unmarshal restores a resource from a record produced by Marshal.
func (reg *Registry) Unmarshal(blob []byte) (Resource, error) {
	var rec Record
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, fmt.Errorf("decode resource record: %w", err)
	}
	h, err := reg.Handler(rec.Type)
	if err != nil {
		return nil, err
	}
	return h.Restore(rec)
}
