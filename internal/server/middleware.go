package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	pkgmdw "github.com/nguyentranbao-ct/product-search/internal/server/middleware"
)

// errorHandler renders every error as a structured JSON body. Stack traces
// and raw internal errors never reach the caller.
func errorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := &pkgmdw.ResponseError{
			Status:       http.StatusInternalServerError,
			ErrorMessage: http.StatusText(http.StatusInternalServerError),
		}

		var he *echo.HTTPError
		var re *pkgmdw.ResponseError
		switch {
		case errors.As(err, &re):
			resp = re
			if resp.ErrorMessage == "" {
				resp.ErrorMessage = http.StatusText(resp.Status)
			}
		case errors.As(err, &he):
			resp.Status = he.Code
			resp.ErrorMessage = fmt.Sprint(he.Message)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}
