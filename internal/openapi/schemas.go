package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mkrentals/backoffice/internal/model"
)

// componentSchemas returns the shared request and response schemas. They
// mirror the JSON envelopes in the model package.
func componentSchemas() openapi3.Schemas {
	sessionAdmin := object(openapi3.Schemas{
		"id":        stringProp("uuid"),
		"username":  stringProp(""),
		"role":      roleProp(),
		"full_name": stringProp(""),
	}, "id", "username", "role")

	adminSummary := object(openapi3.Schemas{
		"id":            stringProp("uuid"),
		"username":      stringProp(""),
		"full_name":     stringProp(""),
		"role":          roleProp(),
		"last_login_at": stringProp("date-time"),
	}, "id", "username", "role")

	return openapi3.Schemas{
		"ErrorResponse": object(openapi3.Schemas{
			"success": boolProp(),
			"code": &openapi3.SchemaRef{Value: &openapi3.Schema{
				Type: &openapi3.Types{"string"},
				Enum: []interface{}{
					model.CodeInvalidRequest,
					model.CodeInvalidCredentials,
					model.CodeUnauthorized,
					model.CodeSetupAlreadyCompleted,
					model.CodeSetupFailed,
					model.CodeRateLimited,
					model.CodeInternalError,
				},
			}},
			"message": stringProp(""),
		}, "success", "code", "message"),

		"SuccessResponse": object(openapi3.Schemas{
			"success": boolProp(),
			"message": stringProp(""),
		}, "success"),

		"LoginRequest": object(openapi3.Schemas{
			"username": stringProp(""),
			"password": &openapi3.SchemaRef{Value: &openapi3.Schema{
				Type:      &openapi3.Types{"string"},
				Format:    "password",
				WriteOnly: true,
			}},
		}, "username", "password"),

		"LoginResponse": object(openapi3.Schemas{
			"success": boolProp(),
			"admin":   adminSummary,
		}, "success", "admin"),

		"MeResponse": object(openapi3.Schemas{
			"admin": sessionAdmin,
		}, "admin"),

		"SetupCheckResponse": object(openapi3.Schemas{
			"needsSetup": boolProp(),
			"message":    stringProp(""),
		}, "needsSetup"),

		"SetupResponse": object(openapi3.Schemas{
			"success": boolProp(),
			"message": stringProp(""),
			"credentials": object(openapi3.Schemas{
				"username": stringProp(""),
				"password": stringProp(""),
			}, "username", "password"),
			"info": object(openapi3.Schemas{
				"pattern": stringProp(""),
				"note":    stringProp(""),
			}),
		}, "success", "credentials"),
	}
}

func object(props openapi3.Schemas, required ...string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: props,
		Required:   required,
	}}
}

func stringProp(format string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:   &openapi3.Types{"string"},
		Format: format,
	}}
}

func boolProp() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}}
}

func roleProp() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type: &openapi3.Types{"string"},
		Enum: []interface{}{string(model.RoleSuperAdmin), string(model.RoleAdmin)},
	}}
}
