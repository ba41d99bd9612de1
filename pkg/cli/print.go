package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/getmockd/mockrr/pkg/cli/internal/output"
	"github.com/getmockd/mockrr/pkg/resource"
)

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to w. Human-readable prose goes to stderr or is omitted. textFn is called
// only in text mode.
func printResult(w io.Writer, data any, textFn func()) error {
	if jsonOutput {
		return output.JSON(w, data)
	}
	textFn()
	return nil
}

// resourceView is the --json shape of a resource.
type resourceView struct {
	ID          string            `json:"id,omitempty"`
	ContentType string            `json:"contentType"`
	Charset     string            `json:"charset"`
	Status      int               `json:"status"`
	Headers     *resource.Headers `json:"headers"`
	Data        json.RawMessage   `json:"data"`
}

// printResource writes the rendered body, or its JSON view with --json.
func printResource(w io.Writer, id string, res resource.Resource) error {
	if jsonOutput {
		data, err := res.MarshalData()
		if err != nil {
			return err
		}
		return output.JSON(w, resourceView{
			ID:          id,
			ContentType: res.ContentType(),
			Charset:     res.Charset(),
			Status:      res.Status(),
			Headers:     res.Headers(),
			Data:        data,
		})
	}
	body, err := res.Body()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", body)
	return err
}
