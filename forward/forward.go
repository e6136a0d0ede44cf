// Package forward adapts use cases to fiber handlers.
package forward

import (
	"fmt"
	"reflect"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/dataresource/mask"
	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/ucdef"
	"github.com/rise-and-shine/dataresource/val"
)

const maxLogAllowedSize = 8 << 10 // 8KB

// StatusCoder is implemented by responses that need a status other than 200.
type StatusCoder interface {
	HTTPStatus() int
}

// ToUserAction forwards a request to a use case that returns a response.
// GET requests decode query params, POST requests decode a JSON body. Path
// params are decoded for both. I must be a pointer to a struct.
func ToUserAction[I, O any](uc ucdef.UserAction[I, O]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := newRequest[I]()
		if err != nil {
			return errx.Wrap(err)
		}

		switch c.Method() {
		case fiber.MethodGet:
			err = decodeQuery(c, req)
		case fiber.MethodPost:
			err = decodeBody(c, req)
		default:
			return errx.New(
				"unsupported http method: allowed only GET and POST",
				errx.WithType(errx.T_Validation),
				errx.WithCode(codeInvalidHTTPMethod),
				errx.WithDetails(errx.D{
					"received_http_method": c.Method(),
				}),
			)
		}
		if err != nil {
			return errx.Wrap(err)
		}

		err = decodePath(c, req)
		if err != nil {
			return errx.Wrap(err)
		}

		log := logger.
			Named("http.handler").
			WithContext(c.UserContext()).
			With("operation_id", uc.OperationID(), "use_case_type", ucdef.TypeUserAction)

		if len(c.Body()) <= maxLogAllowedSize {
			log = log.With("request_body", mask.StructToMap(req))
		} else {
			log = log.With("request_body", fmt.Sprintf("too large for logging: %d bytes", len(c.Body())))
		}

		err = val.ValidateSchema(req)
		if err != nil {
			log.Warnx(err)
			return errx.Wrap(err)
		}

		resp, err := uc.Execute(c.UserContext(), req)
		if err != nil {
			return errx.Wrap(err)
		}

		if sc, ok := any(resp).(StatusCoder); ok {
			c.Status(sc.HTTPStatus())
		}

		size, err := writeJSON(c, resp)
		if err != nil {
			log.Errorx(err)
			return errx.Wrap(err)
		}

		if size <= maxLogAllowedSize {
			log = log.With("response_body", mask.StructToMap(resp))
		} else {
			log = log.With("response_body", fmt.Sprintf("too large for logging: %d bytes", size))
		}

		log.Debug("request forwarded")
		return nil
	}
}

// newRequest creates a new request of type I.
// It ensures that I is a pointer to a struct.
func newRequest[I any]() (I, error) {
	var req I

	reqType := reflect.TypeOf((*I)(nil)).Elem()
	if reqType.Kind() != reflect.Pointer || reqType.Elem().Kind() != reflect.Struct {
		return req, errx.New("input type I must be a pointer to a struct")
	}

	reqVal := reflect.New(reqType.Elem()).Interface().(I) //nolint:errcheck // safe type assertion
	return reqVal, nil
}

func writeJSON(c *fiber.Ctx, data any) (int, error) {
	raw, err := c.App().Config().JSONEncoder(data)
	if err != nil {
		return 0, errx.Wrap(err)
	}

	c.Response().SetBodyRaw(raw)
	c.Response().Header.SetContentType(fiber.MIMEApplicationJSON)
	return len(raw), nil
}
