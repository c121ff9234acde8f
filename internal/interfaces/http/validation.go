package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/contable-api/internal/application/dto"
)

var validate = validator.New()

func init() {
	// Los campos se informan con su nombre JSON, igual que los errores fiscales.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal.Decimal como numérico para reglas min/gt.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate parsea el body JSON y aplica las reglas `validate`.
// Devuelve false si ya escribió la respuesta de error; el handler debe retornar sin escribir otra.
func bindAndValidate(c *fiber.Ctx, req interface{}) bool {
	if err := c.BodyParser(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *fiber.Ctx, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	_ = c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Fields:  fields,
	})
	return false
}

// parsePage lee limit/offset de la query y aplica los valores por defecto.
func parsePage(c *fiber.Ctx) (dto.PageRequest, bool) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit y offset deben ser enteros"})
		return page, false
	}
	if !validateStruct(c, &page) {
		return page, false
	}
	page.DefaultPage()
	return page, true
}
