package openapi

import "maps"

func errorContent() map[string]*MediaType {
	return map[string]*MediaType{
		"application/json": {Schema: SchemaRef("Error")},
	}
}

// NewComponents creates Components with the shared error and notice schemas and
// the error responses every workflow endpoint can return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Notice": {
				Type: "object",
				Properties: map[string]*Schema{
					"level":       {Type: "string", Enum: []any{"success", "warning", "error"}},
					"title":       {Type: "string", Example: "Success!"},
					"description": {Type: "string"},
				},
			},
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error":  {Type: "string", Description: "Error message"},
					"notice": SchemaRef("Notice"),
				},
			},
			"State": {
				Type: "string",
				Enum: []any{"idle", "pending", "succeeded", "failed"},
			},
		},
		Responses: map[string]*Response{
			"BadRequest": {
				Description: "Missing or invalid selection",
				Content:     errorContent(),
			},
			"NotFound": {
				Description: "Resource not found",
				Content:     errorContent(),
			},
			"Conflict": {
				Description: "A request is already pending",
				Content:     errorContent(),
			},
			"UnsupportedMediaType": {
				Description: "Selected file type is not accepted",
				Content:     errorContent(),
			},
			"BadGateway": {
				Description: "Remote service request failed",
				Content:     errorContent(),
			},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
