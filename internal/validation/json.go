package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// JSONSerializer is echo's JSON serializer with a stricter decoder: a body
// must hold exactly one JSON value, anything after it is a syntax error.
type JSONSerializer struct {
	echo.DefaultJSONSerializer
}

// Deserialize decodes the request body into i.
func (s JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	dec := json.NewDecoder(c.Request().Body)

	err := dec.Decode(i)
	if err == nil {
		if _, tokErr := dec.Token(); !errors.Is(tokErr, io.EOF) {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Syntax error: offset=%v, error=unexpected data after top-level value", dec.InputOffset()))
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Unmarshal type error: expected=%v, got=%v, field=%v, offset=%v", typeErr.Type, typeErr.Value, typeErr.Field, typeErr.Offset)).
			SetInternal(err)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Syntax error: offset=%v, error=%v", syntaxErr.Offset, syntaxErr.Error())).
			SetInternal(err)
	}

	return err
}

// isImplicitJSON reports whether a body with this Content-Type is decoded as
// JSON even though echo's binder only accepts application/json: no header at
// all, or a structured syntax suffix such as application/vnd.api+json.
func isImplicitJSON(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return mediaType == "" || strings.HasSuffix(mediaType, "+json")
}

func bind(c echo.Context, payload Validatable) error {
	req := c.Request()
	if req.ContentLength != 0 && isImplicitJSON(req.Header.Get(echo.HeaderContentType)) {
		if err := c.Echo().JSONSerializer.Deserialize(c, payload); err != nil {
			var echoErr *echo.HTTPError
			if errors.As(err, &echoErr) {
				return err
			}
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
		return nil
	}

	return c.Bind(payload)
}
