package analyzer

import "github.com/JaimeStill/whiskers/pkg/openapi"

// Spec holds the OpenAPI operations for analyzer endpoints.
var Spec = struct {
	View    *openapi.Operation
	Select  *openapi.Operation
	Analyze *openapi.Operation
	Schemas map[string]*openapi.Schema
}{
	View: &openapi.Operation{
		Summary: "Get analyzer state",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Current selection and lifecycle", "AnalyzerView"),
		},
	},
	Select: &openapi.Operation{
		Summary:     "Select a clip",
		Description: "Validates the clip type and stores it for the next analysis. Nothing is sent to the remote service.",
		RequestBody: openapi.RequestBodyMultipart("video", true),
		Responses: openapi.WithErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Selection stored", "AnalyzerView"),
		}, 400, 415),
	},
	Analyze: &openapi.Operation{
		Summary:     "Analyze the selected clip",
		Description: "Issues exactly one request to the analysis service. Rejected with 409 while a request is pending.",
		RequestBody: openapi.RequestBodyMultipart("video", false),
		Responses: openapi.WithErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Mood classification", "AnalyzeResponse"),
		}, 400, 409, 415, 502),
	},
	Schemas: map[string]*openapi.Schema{
		"MoodAnalysis": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"content": {Type: "boolean"},
				"scared":  {Type: "boolean"},
				"hungry":  {Type: "boolean"},
			},
		},
		"AnalyzeResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"analysis": openapi.SchemaRef("MoodAnalysis"),
				"notice":   openapi.SchemaRef("Notice"),
			},
		},
		"AnalyzerView": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"name":         {Type: "string"},
						"content_type": {Type: "string"},
						"size":         {Type: "integer"},
					},
				},
				"status": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"state":   openapi.SchemaRef("State"),
						"enabled": {Type: "boolean"},
						"result":  openapi.SchemaRef("MoodAnalysis"),
						"error":   {Type: "string"},
					},
				},
				"can_submit": {Type: "boolean"},
			},
		},
	},
}
