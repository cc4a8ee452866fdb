package handler

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apierror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Money fields are validated by sign only; every decimal tag in dto compares
// against zero (gt=0, min=0). Precision is checked by the services.
func init() {
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			return v.Sign()
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the caller
// should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// ── Domain error mapping ─────────────────────────────────────────────────────

var statusByKind = []struct {
	kind   error
	status int
	code   string
}{
	// DuplicateClosing before InvalidState: it matches both
	{apperror.ErrDuplicateClosing, http.StatusConflict, "duplicate_closing"},
	{apperror.ErrValidation, http.StatusUnprocessableEntity, "validation"},
	{apperror.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperror.ErrDuplicateKey, http.StatusConflict, "duplicate_key"},
	{apperror.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{apperror.ErrInsufficientStock, http.StatusBadRequest, "insufficient_stock"},
	{apperror.ErrInvalidStock, http.StatusBadRequest, "invalid_stock"},
	{apperror.ErrInvalidDiscount, http.StatusBadRequest, "invalid_discount"},
	{apperror.ErrInsufficientPayment, http.StatusBadRequest, "insufficient_payment"},
}

// respondError writes the response for a service error. Errors without a
// domain kind are attached to the context; ErrorHandler logs them and answers
// 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		for _, m := range statusByKind {
			if !errors.Is(err, m.kind) {
				continue
			}
			if m.kind == apperror.ErrValidation && len(appErr.Fields) > 0 {
				c.JSON(m.status, apierror.NewValidation(appErr.Fields))
				return
			}
			c.JSON(m.status, apierror.WithCode(m.code, appErr.Message))
			return
		}
	}
	_ = c.Error(err)
}

// ── Params ───────────────────────────────────────────────────────────────────

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("bad_request", "ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// diaParam parses a YYYY-MM-DD value in the business timezone. An empty value
// means today.
func diaParam(c *gin.Context, clk clock.Clock, raw string) (time.Time, bool) {
	if raw == "" {
		return clk.Now(), true
	}
	dia, err := clock.ParseDia(raw, clk.Location())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.WithCode("validation", "data invalida, use AAAA-MM-DD"))
		return time.Time{}, false
	}
	return dia, true
}

// periodoParams reads ?inicio=&fim=; a missing end defaults to the start.
func periodoParams(c *gin.Context, clk clock.Clock) (inicio, fim time.Time, ok bool) {
	if inicio, ok = diaParam(c, clk, c.Query("inicio")); !ok {
		return
	}
	raw := c.Query("fim")
	if raw == "" {
		return inicio, inicio, true
	}
	fim, ok = diaParam(c, clk, raw)
	return
}
