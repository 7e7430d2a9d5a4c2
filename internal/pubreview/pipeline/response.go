package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"pubreview/internal/pubreview/model"

	"github.com/labstack/echo/v4"
)

// write sends a handler result to the client. Activity bookkeeping has
// already happened by the time it is called.
func write(c echo.Context, r Result) error {
	switch v := r.(type) {
	case Ok:
		return writeData(c, statusOr(v.Code, http.StatusOK), v.Data, nil)
	case Partial:
		return writeData(c, statusOr(v.Code, http.StatusMultiStatus), v.Data, v.Errors)
	case Error:
		return writeError(c, statusOr(v.Code, http.StatusInternalServerError), v.Message, v.Errors)
	case Redirect:
		return c.Redirect(statusOr(v.Code, http.StatusFound), v.URL)
	case File:
		return c.File(v.Path)
	case FileRaw:
		mime := v.MimeType
		if mime == "" {
			mime = echo.MIMEOctetStream
		}
		return c.Blob(http.StatusOK, mime, v.Data)
	}
	return fmt.Errorf("unknown result %T", r)
}

// writeData spreads the fields of data into the envelope next to the status.
// Data that does not encode to a JSON object is sent under "data".
func writeData(c echo.Context, code int, data any, errs model.FieldErrors) error {
	if code == http.StatusNoContent {
		return c.NoContent(code)
	}

	body := map[string]any{}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		fields := map[string]json.RawMessage{}
		if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			for k, v := range fields {
				body[k] = v
			}
		} else if !bytes.Equal(raw, []byte("null")) {
			body["data"] = json.RawMessage(raw)
		}
	}
	if len(errs) > 0 {
		body["errors"] = errs
	}
	body["status"] = model.StatusOK
	return c.JSON(code, body)
}

func writeError(c echo.Context, code int, message string, errs model.FieldErrors) error {
	return c.JSON(code, model.ErrorResponse{
		Status:  model.StatusError,
		Message: message,
		Errors:  errs,
	})
}

func statusOr(code, fallback int) int {
	if code == 0 {
		return fallback
	}
	return code
}
