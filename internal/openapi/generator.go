package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Generate builds the OpenAPI 3.1 document for the back office auth and
// setup API. cookieName is the session cookie the protected operations
// expect.
func Generate(cookieName, baseURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "MK Rentals Back Office API",
			Description: "Admin authentication, session, and first-run setup endpoints.",
			Version:     "1.0.0",
		},
	}
	if baseURL != "" {
		doc.Servers = openapi3.Servers{{URL: baseURL}}
	}

	components := openapi3.NewComponents()
	components.Schemas = componentSchemas()
	components.SecuritySchemes = openapi3.SecuritySchemes{}
	doc.Components = &components

	doc.Components.SecuritySchemes["sessionCookie"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type:        "apiKey",
			In:          "cookie",
			Name:        cookieName,
			Description: "Signed session token set by the login endpoint.",
		},
	}

	doc.Paths = openapi3.NewPaths()
	addAuthPaths(doc)
	addSetupPaths(doc)
	return doc
}

func addAuthPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/auth/login", &openapi3.PathItem{
		Post: &openapi3.Operation{
			Tags:        []string{"auth"},
			Summary:     "Log in with username and password",
			Description: "Sets the session cookie on success. Every credential failure returns the same 401 message.",
			OperationID: "login",
			RequestBody: &openapi3.RequestBodyRef{
				Value: &openapi3.RequestBody{
					Required: true,
					Content:  openapi3.NewContentWithJSONSchemaRef(ref("LoginRequest")),
				},
			},
			Responses: newResponses("200", "Logged in", ref("LoginResponse"), "400", "401", "429", "500"),
		},
	})

	doc.Paths.Set("/api/auth/logout", &openapi3.PathItem{
		Post: &openapi3.Operation{
			Tags:        []string{"auth"},
			Summary:     "Log out",
			Description: "Deletes the session cookie. The token itself stays valid until it expires.",
			OperationID: "logout",
			Responses:   newResponses("200", "Logged out", ref("SuccessResponse")),
		},
	})

	doc.Paths.Set("/api/auth/me", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"auth"},
			Summary:     "Current session admin",
			OperationID: "me",
			Security:    &openapi3.SecurityRequirements{{"sessionCookie": {}}},
			Responses:   newResponses("200", "Session admin", ref("MeResponse"), "401"),
		},
	})
}

func addSetupPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/setup/check", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"setup"},
			Summary:     "Check whether first-run setup is needed",
			Description: "Reports needsSetup=false when the check itself fails.",
			OperationID: "setupCheck",
			Responses:   newResponses("200", "Setup status", ref("SetupCheckResponse")),
		},
	})

	doc.Paths.Set("/api/setup", &openapi3.PathItem{
		Post: &openapi3.Operation{
			Tags:        []string{"setup"},
			Summary:     "Create the first admin account",
			Description: "Returns the generated credentials exactly once. Fails with SETUP_ALREADY_COMPLETED when any admin exists.",
			OperationID: "setup",
			Responses:   newResponses("200", "First admin created", ref("SetupResponse"), "400", "429", "500"),
		},
	})
}

// ─── Response Helpers ───────────────────────────────────────────────────────

var errorDescriptions = map[string]string{
	"400": "Bad request",
	"401": "Unauthorized",
	"429": "Too many requests",
	"500": "Internal server error",
}

// newResponses builds a Responses map with a success response and the listed
// error responses, all sharing the ErrorResponse envelope.
func newResponses(statusCode, description string, schema *openapi3.SchemaRef, errorCodes ...string) *openapi3.Responses {
	responses := openapi3.NewResponses()

	successDesc := description
	responses.Set(statusCode, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &successDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})

	errorRef := ref("ErrorResponse")
	for _, code := range errorCodes {
		desc := errorDescriptions[code]
		responses.Set(code, &openapi3.ResponseRef{
			Value: &openapi3.Response{
				Description: &desc,
				Content:     openapi3.NewContentWithJSONSchemaRef(errorRef),
			},
		})
	}
	return responses
}

func ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}
