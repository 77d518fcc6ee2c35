package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"catalogo-api/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so details match the payload the caller sent
	validate.RegisterTagNameFunc(jsonName)
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Field messages keyed by "<field>.<tag>", falling back to "<field>"
var fieldMessages = map[string]string{
	"body":             "Corpo da requisição deve ser um JSON válido",
	"nome.required":    "Nome é obrigatório",
	"nome":             "Nome deve ter entre 1 e 255 caracteres",
	"preco.required":   "Preço é obrigatório",
	"preco":            "Preço deve ser um número positivo",
	"estoque.required": "Estoque é obrigatório",
	"estoque":          "Estoque deve ser um número inteiro não negativo",
	"email.required":   "Email é obrigatório",
	"email":            "Email deve ter um formato válido",
	"id":               "ID deve ser um UUID válido",
	"page":             "Página deve ser um número inteiro positivo",
	"limit":            "Limit deve ser um número entre 1 e 100",
	"search.utf8":      "Busca deve ser um texto válido",
	"search":           "Busca deve ter no máximo 255 caracteres",
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violation found in one request
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Normalizer is implemented by payloads that canonicalise fields before validation
type Normalizer interface {
	Normalize()
}

// NormalizeEmail returns the canonical form an email is stored and compared in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRequest validates the request body against a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes JSON request body and validates it. Every violation is
// reported, including each field whose JSON type did not fit the target.
// v must be a pointer to a struct.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil || raw == nil {
		return ValidationErrors{violation("body", "")}
	}

	var violations ValidationErrors
	reported := map[string]bool{}

	target := reflect.ValueOf(v).Elem()
	for i := 0; i < target.NumField(); i++ {
		fld := target.Type().Field(i)
		name := jsonName(fld)
		value, ok := raw[name]
		if !fld.IsExported() || name == "" || !ok {
			continue
		}

		field := target.Field(i)
		if err := json.Unmarshal(value, field.Addr().Interface()); err != nil {
			field.Set(reflect.Zero(fld.Type))
			violations = append(violations, violation(name, "type"))
			reported[name] = true
		}
	}

	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}

	violations = appendFieldErrors(violations, ValidateRequest(v), reported)
	if len(violations) > 0 {
		return violations
	}
	return nil
}

// ParseIdentifier checks that raw is a canonical version 4 UUID before any store access
func ParseIdentifier(raw string) (uuid.UUID, error) {
	if err := validate.Var(raw, "required,uuid4_rfc4122"); err != nil {
		return uuid.Nil, ValidationErrors{violation("id", "")}
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ValidationErrors{violation("id", "")}
	}
	return id, nil
}

type listQuery struct {
	Page   int    `json:"page" validate:"gte=1"`
	Limit  int    `json:"limit" validate:"gte=1,lte=100"`
	Search string `json:"search" validate:"max=255"`
}

// ParseListQuery reads page, limit and search from the query string, applying defaults
func ParseListQuery(values url.Values) (domain.ListQuery, error) {
	var violations ValidationErrors
	reported := map[string]bool{}

	q := listQuery{
		Page:   domain.DefaultPage,
		Limit:  domain.DefaultLimit,
		Search: values.Get("search"),
	}

	// the store rejects byte sequences that are not UTF-8 text
	if !utf8.ValidString(q.Search) || strings.ContainsRune(q.Search, 0) {
		violations = append(violations, violation("search", "utf8"))
		reported["search"] = true
	}

	for _, param := range []struct {
		field  string
		target *int
	}{{"page", &q.Page}, {"limit", &q.Limit}} {
		field := param.field
		raw := values.Get(field)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			violations = append(violations, violation(field, "type"))
			reported[field] = true
			continue
		}
		*param.target = n
	}

	violations = appendFieldErrors(violations, ValidateRequest(&q), reported)
	if len(violations) > 0 {
		return domain.ListQuery{}, violations
	}

	return domain.ListQuery{Page: q.Page, Limit: q.Limit, Search: q.Search}, nil
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(ValidationErrors); ok {
		return validationErrors
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errors
}

func appendFieldErrors(violations ValidationErrors, err error, reported map[string]bool) ValidationErrors {
	for _, e := range FormatValidationErrors(err) {
		if reported[e.Field] {
			continue
		}
		reported[e.Field] = true
		violations = append(violations, e)
	}
	return violations
}

func violation(field, tag string) ValidationError {
	if msg, ok := fieldMessages[field+"."+tag]; ok {
		return ValidationError{Field: field, Message: msg}
	}
	if msg, ok := fieldMessages[field]; ok {
		return ValidationError{Field: field, Message: msg}
	}
	return ValidationError{Field: field, Message: "Valor inválido"}
}

func getErrorMessage(e validator.FieldError) string {
	if _, ok := fieldMessages[e.Field()]; ok {
		return violation(e.Field(), e.Tag()).Message
	}

	switch e.Tag() {
	case "required":
		return "Campo obrigatório"
	case "email":
		return "Formato de email inválido"
	case "min":
		return "Valor muito curto"
	case "max":
		return "Valor muito longo"
	case "gte":
		return "Valor deve ser maior ou igual a " + e.Param()
	case "lte":
		return "Valor deve ser menor ou igual a " + e.Param()
	default:
		return "Valor inválido"
	}
}
