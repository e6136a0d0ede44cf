package forward_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/forward"
)

type echoRequest struct {
	ID       string `params:"id"         json:"-"         validate:"required"`
	Name     string `json:"name"         query:"name"     validate:"required"`
	PageSize int    `json:"page_size"    query:"page_size"`
}

type echoResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PageSize int    `json:"page_size"`
	status   int
}

func (r *echoResponse) HTTPStatus() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

type echo struct {
	status int
	err    error
}

func (e *echo) OperationID() string { return "echo" }

func (e *echo) Execute(_ context.Context, in *echoRequest) (*echoResponse, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &echoResponse{ID: in.ID, Name: in.Name, PageSize: in.PageSize, status: e.status}, nil
}

func newApp(uc *echo) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			e := errx.AsErrorX(err)
			return c.Status(http.StatusTeapot).JSON(fiber.Map{"code": e.Code()})
		},
	})
	app.Get("/items/:id", forward.ToUserAction(uc))
	app.Post("/items/:id", forward.ToUserAction(uc))
	app.Put("/items/:id", forward.ToUserAction(uc))
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestToUserAction_GetDecodesQueryAndPath(t *testing.T) {
	app := newApp(&echo{})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/items/abc?name=x&page_size=5", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"id": "abc", "name": "x", "page_size": float64(5)}, body)
}

func TestToUserAction_PostDecodesBody(t *testing.T) {
	app := newApp(&echo{status: http.StatusAccepted})

	req := httptest.NewRequest(http.MethodPost, "/items/abc", strings.NewReader(`{"name":"y"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	status, body := do(t, app, req)

	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "abc", body["id"])
	assert.Equal(t, "y", body["name"])
}

func TestToUserAction_Errors(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		query       string
		body        string
		contentType string
		uc          *echo
		code        string
	}{
		{
			name:   "validation failure",
			method: http.MethodGet,
			uc:     &echo{},
			code:   "VALIDATION_FAILED",
		},
		{
			name:        "wrong content type",
			method:      http.MethodPost,
			body:        "name=y",
			contentType: fiber.MIMETextPlain,
			uc:          &echo{},
			code:        "INVALID_CONTENT_TYPE",
		},
		{
			name:        "malformed json",
			method:      http.MethodPost,
			body:        `{"name":`,
			contentType: fiber.MIMEApplicationJSON,
			uc:          &echo{},
			code:        "INVALID_JSON_BODY",
		},
		{
			name:   "unsupported method",
			method: http.MethodPut,
			uc:     &echo{},
			code:   "INVALID_HTTP_METHOD",
		},
		{
			name:   "use case error",
			method: http.MethodGet,
			query:  "?name=x",
			uc:     &echo{err: errx.New("boom", errx.WithCode("BOOM"))},
			code:   "BOOM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(tt.uc)

			req := httptest.NewRequest(tt.method, "/items/abc"+tt.query, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set(fiber.HeaderContentType, tt.contentType)
			}

			status, body := do(t, app, req)
			assert.Equal(t, http.StatusTeapot, status)
			assert.Equal(t, tt.code, body["code"])
		})
	}
}
