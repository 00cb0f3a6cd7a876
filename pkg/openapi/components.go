package openapi

// NewComponents returns the schemas and error responses shared by every domain.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "1-based page number"},
					"page_size": {Type: "integer", Description: "Results per page"},
					"search":    {Type: "string", Description: "Case-insensitive search term"},
					"sort": ArrayOf(&Schema{
						Type: "object",
						Properties: map[string]*Schema{
							"field":      {Type: "string"},
							"descending": {Type: "boolean"},
						},
					}),
				},
			},
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":          errorResponse("Invalid request"),
			"NotFound":            errorResponse("Resource not found"),
			"Conflict":            errorResponse("Resource conflict"),
			"PayloadTooLarge":     errorResponse("Upload exceeds the configured size limit"),
			"UnprocessableEntity": errorResponse("Package could not be processed"),
			"BadGateway":          errorResponse("Collaborator failed to produce a valid report"),
			"ServiceUnavailable":  errorResponse("Collaborator not configured or unavailable"),
		},
	}
}

// AddSchemas merges schemas into the components.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, schema := range schemas {
		c.Schemas[name] = schema
	}
}

// AddResponses merges responses into the components.
func (c *Components) AddResponses(responses map[string]*Response) {
	for name, resp := range responses {
		c.Responses[name] = resp
	}
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}
