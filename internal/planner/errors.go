package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"viajeia/internal/model"
)

// ServiceError is a failure status returned by a remote service.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service error: status %d", e.Status)
	}
	return fmt.Sprintf("service error: status %d: %s", e.Status, e.Detail)
}

// Is makes errors.Is(err, model.ErrService) hold.
func (e *ServiceError) Is(target error) bool {
	return target == model.ErrService
}

// Connectivity marks err as a failure to get any response.
func Connectivity(err error) error {
	return fmt.Errorf("%w: %w", model.ErrConnectivity, err)
}

// CheckResponse returns a ServiceError for non-2xx responses. The detail is
// the body's "detail" field when present, else the status text.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := http.StatusText(resp.StatusCode)
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &body) == nil && len(body.Detail) > 0 {
		var s string
		if json.Unmarshal(body.Detail, &s) == nil {
			if s = strings.TrimSpace(s); s != "" {
				detail = s
			}
		} else if string(body.Detail) != "null" {
			// Validation errors come back as a JSON list.
			detail = string(body.Detail)
		}
	}
	return &ServiceError{Status: resp.StatusCode, Detail: detail}
}
