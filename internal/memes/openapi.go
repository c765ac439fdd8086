package memes

import "github.com/JaimeStill/whiskers/pkg/openapi"

// Spec holds the OpenAPI operations for meme endpoints.
var Spec = struct {
	View     *openapi.Operation
	Generate *openapi.Operation
	Download *openapi.Operation
	Schemas  map[string]*openapi.Schema
}{
	View: &openapi.Operation{
		Summary: "Get meme maker state",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Current prompt, reference image, and lifecycle", "MemesView"),
		},
	},
	Generate: &openapi.Operation{
		Summary:     "Generate a meme",
		Description: "Sends the prompt with the configured generation parameters. A reference image may accompany a multipart request; it is shown as a preview and not sent.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json":    {Schema: openapi.SchemaRef("GenerateRequest")},
				"multipart/form-data": openapi.RequestBodyMultipart("image", false, "prompt").Content["multipart/form-data"],
			},
		},
		Responses: openapi.WithErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Generated image location", "GenerateResponse"),
		}, 400, 409, 415, 502),
	},
	Download: &openapi.Operation{
		Summary: "Download the generated meme",
		Responses: openapi.WithErrors(map[int]*openapi.Response{
			200: {
				Description: "Meme image as an attachment named generated-meme.png",
				Content: map[string]*openapi.MediaType{
					"image/png": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
		}, 404, 502),
	},
	Schemas: map[string]*openapi.Schema{
		"GenerateRequest": {
			Type:       "object",
			Required:   []string{"prompt"},
			Properties: map[string]*openapi.Schema{"prompt": {Type: "string", Example: "funny cat"}},
		},
		"MemeResult": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"image_url": {Type: "string", Format: "uri"}},
		},
		"GenerateResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"result": openapi.SchemaRef("MemeResult"),
				"notice": openapi.SchemaRef("Notice"),
			},
		},
		"MemesView": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"prompt": {Type: "string"},
				"image":  {Type: "object"},
				"status": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"state":   openapi.SchemaRef("State"),
						"enabled": {Type: "boolean"},
						"result":  openapi.SchemaRef("MemeResult"),
						"error":   {Type: "string"},
					},
				},
				"can_submit": {Type: "boolean"},
			},
		},
	},
}
