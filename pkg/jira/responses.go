package jira

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type StatusCodeRange int

func (sc StatusCodeRange) String() string {
	switch sc {
	case Status1xx:
		return "informational response"
	case Status2xx:
		return "success"
	case Status3xx:
		return "redirect"
	case Status4xx:
		return "client error"
	case Status5xx:
		return "server error"
	default:
		return fmt.Sprintf("unknown (%d)", sc)
	}
}

func StatusCodeRangeOf(resp *http.Response) StatusCodeRange {
	sc := resp.StatusCode
	if sc < 200 {
		return Status1xx
	}
	if sc < 300 {
		return Status2xx
	}
	if sc < 400 {
		return Status3xx
	}
	if sc < 500 {
		return Status4xx
	}
	if sc < 600 {
		return Status5xx
	}
	return StatusUnknown
}

const (
	StatusUnknown StatusCodeRange = iota
	Status1xx
	Status2xx
	Status3xx
	Status4xx
	Status5xx
)

// MessageFor maps a status code range to the error message to report
// when a response falls in it.
type MessageFor map[StatusCodeRange]string

// unmarshalJsonResponse decodes a JSON response body into v.
//
// Responses outside 2xx become errors carrying the message from
// messageFor (plus whatever error detail the server sent).
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf(
				"unexpected response: %s (status code = %d)", err, resp.StatusCode,
			)
		}
		return nil
	}
	return errorFromResponse(resp, scr, messageFor)
}

// unmarshalStreamResponse hands over the raw response body, or turns a
// non-2xx response into an error.
func unmarshalStreamResponse(resp *http.Response, messageFor MessageFor) (io.ReadCloser, error) {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		return resp.Body, nil
	}
	return nil, errorFromResponse(resp, scr, messageFor)
}

func unmarshalResponseDiscardingPayload(resp *http.Response, messageFor MessageFor) error {
	rc, err := unmarshalStreamResponse(resp, messageFor)
	if rc != nil {
		io.Copy(io.Discard, rc)
	}
	return err
}

func errorFromResponse(resp *http.Response, scr StatusCodeRange, messageFor MessageFor) error {
	message, ok := messageFor[scr]
	if !ok {
		message = scr.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: cannot read server message: %s", message, err)
	}
	if detail := parseErrorMessage(body); detail != "" {
		return fmt.Errorf("%s: %s", message, detail)
	}
	return fmt.Errorf("%s", message)
}

// parseErrorMessage extracts Jira's errorMessages array when present,
// falling back to the raw body.
func parseErrorMessage(body []byte) string {
	var jiraErr struct {
		ErrorMessages []string `json:"errorMessages"`
	}
	if err := json.Unmarshal(body, &jiraErr); err == nil && len(jiraErr.ErrorMessages) > 0 {
		detail := jiraErr.ErrorMessages[0]
		for _, m := range jiraErr.ErrorMessages[1:] {
			detail += "; " + m
		}
		return detail
	}
	return string(body)
}
