package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"medrecords-gateway/internal/handler/httperr"
	"medrecords-gateway/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	ctxRawBodyKey        = "raw_body"
	ctxParsedBodyKey     = "parsed_body"
	ctxBodyParseErrorKey = "body_parse_error"
)

var ErrBodyNotJSON = errs.New("request body is not valid JSON")

type bodyKind int

const (
	bodyIgnored bodyKind = iota
	bodyJSON
	bodyText
)

// RawBodyCapture buffers the exact wire bytes before anything decodes them.
// application/json and application/*+json are parsed alongside; a parse failure
// is recorded, not fatal, so the handler can tell malformed-but-signed payloads
// from unsigned ones. A request without Content-Type is treated as JSON, since
// the signature covers the bytes regardless of the declared type.
// text/plain is exposed as both raw and parsed. Other content types, and a
// Content-Type that does not parse, are not buffered.
func RawBodyCapture(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := classifyBody(c.Request)
		if kind == bodyIgnored {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httperr.AbortWithError(c, http.StatusRequestEntityTooLarge, err,
					httperr.CodeRequestEntityTooLarge, "Request body too large")
				return
			}
			slog.Warn("failed to read request body", "path", c.Request.URL.Path, "error", err.Error())
			httperr.AbortWithError(c, http.StatusBadRequest, err,
				httperr.CodeRawBodyRequired, "Failed to read request body")
			return
		}

		// downstream binders can still read the body
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		c.Set(ctxRawBodyKey, raw)

		switch kind {
		case bodyJSON:
			var parsed any
			if err := json.Unmarshal(raw, &parsed); err != nil {
				c.Set(ctxBodyParseErrorKey, errs.Mark(err, ErrBodyNotJSON))
			} else {
				c.Set(ctxParsedBodyKey, parsed)
			}
		case bodyText:
			c.Set(ctxParsedBodyKey, string(raw))
		}

		c.Next()
	}
}

// GetRawBody returns the captured bytes. They must never be re-serialized before verification.
func GetRawBody(c *gin.Context) ([]byte, bool) {
	v, exists := c.Get(ctxRawBodyKey)
	if !exists {
		return nil, false
	}
	raw, ok := v.([]byte)
	return raw, ok
}

func GetParsedBody(c *gin.Context) (any, error) {
	if v, exists := c.Get(ctxBodyParseErrorKey); exists {
		if err, ok := v.(error); ok {
			return nil, err
		}
	}
	parsed, _ := c.Get(ctxParsedBodyKey)
	return parsed, nil
}

func classifyBody(r *http.Request) bodyKind {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return bodyJSON
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return bodyIgnored
	}
	switch {
	case mediaType == "application/json",
		strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"):
		return bodyJSON
	case mediaType == "text/plain":
		return bodyText
	}
	return bodyIgnored
}
