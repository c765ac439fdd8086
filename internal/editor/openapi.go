package editor

import "github.com/JaimeStill/whiskers/pkg/openapi"

var stickerID = openapi.PathParam("id", "Placed sticker ID")

// Spec holds the OpenAPI operations for editor endpoints.
var Spec = struct {
	View          *openapi.Operation
	Select        *openapi.Operation
	Process       *openapi.Operation
	ListStickers  *openapi.Operation
	Catalog       *openapi.Operation
	AddSticker    *openapi.Operation
	MoveSticker   *openapi.Operation
	RemoveSticker *openapi.Operation
	Schemas       map[string]*openapi.Schema
}{
	View: &openapi.Operation{
		Summary: "Get editor state",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Current image, stickers, and lifecycle", "EditorView"),
		},
	},
	Select: &openapi.Operation{
		Summary:     "Select an image",
		Description: "Stores the image for processing and clears placed stickers.",
		RequestBody: openapi.RequestBodyMultipart("file", true),
		Responses: openapi.WithErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Selection stored", "EditorView"),
		}, 400, 415),
	},
	Process: &openapi.Operation{
		Summary:     "Generate text for the selected image",
		Description: "Issues exactly one request to the image processor and builds share links from its text.",
		RequestBody: openapi.RequestBodyMultipart("file", false),
		Responses: openapi.WithErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Generated text and share links", "ProcessResponse"),
		}, 400, 409, 415, 502),
	},
	ListStickers: &openapi.Operation{
		Summary: "List placed stickers",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Placed stickers",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Sticker")}},
				},
			},
		},
	},
	Catalog: &openapi.Operation{
		Summary: "List available stickers",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Sticker catalog",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("CatalogEntry")}},
				},
			},
		},
	},
	AddSticker: &openapi.Operation{
		Summary:     "Place a sticker",
		RequestBody: openapi.RequestBodyJSON("AddStickerRequest", true),
		Responses: openapi.WithErrors(map[int]*openapi.Response{
			201: openapi.ResponseJSON("Placed sticker", "Sticker"),
		}, 400, 409),
	},
	MoveSticker: &openapi.Operation{
		Summary:     "Move a sticker",
		Description: "Accepts a percentage position, or a pointer and image box in client coordinates.",
		Parameters:  []*openapi.Parameter{stickerID},
		RequestBody: openapi.RequestBodyJSON("StickerMove", true),
		Responses: openapi.WithErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Moved sticker", "Sticker"),
		}, 400, 404),
	},
	RemoveSticker: &openapi.Operation{
		Summary:    "Remove a sticker",
		Parameters: []*openapi.Parameter{stickerID},
		Responses: openapi.WithErrors(map[int]*openapi.Response{
			204: {Description: "Sticker removed"},
		}, 400, 404),
	},
	Schemas: map[string]*openapi.Schema{
		"Position": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"x": {Type: "number", Description: "Percent of image width"},
				"y": {Type: "number", Description: "Percent of image height"},
			},
		},
		"CatalogEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":  {Type: "string", Enum: []any{"cat", "fish", "heart", "paw", "yarn", "crown"}},
				"glyph": {Type: "string"},
				"label": {Type: "string"},
			},
		},
		"Sticker": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":       {Type: "string", Format: "uuid"},
				"name":     {Type: "string"},
				"glyph":    {Type: "string"},
				"position": openapi.SchemaRef("Position"),
			},
		},
		"AddStickerRequest": {
			Type:       "object",
			Required:   []string{"name"},
			Properties: map[string]*openapi.Schema{"name": {Type: "string"}},
		},
		"StickerMove": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"position": openapi.SchemaRef("Position"),
				"pointer": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"x": {Type: "number"},
						"y": {Type: "number"},
					},
				},
				"box": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"left":   {Type: "number"},
						"top":    {Type: "number"},
						"width":  {Type: "number"},
						"height": {Type: "number"},
					},
				},
			},
		},
		"EditorResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"generated_text": {Type: "string"},
				"share_url":      {Type: "string", Format: "uri"},
				"share_links": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"network": {Type: "string"},
							"url":     {Type: "string", Format: "uri"},
						},
					},
				},
			},
		},
		"ProcessResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"result": openapi.SchemaRef("EditorResult"),
				"notice": openapi.SchemaRef("Notice"),
			},
		},
		"EditorView": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"file":     {Type: "object"},
				"stickers": {Type: "array", Items: openapi.SchemaRef("Sticker")},
				"status": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"state":   openapi.SchemaRef("State"),
						"enabled": {Type: "boolean"},
						"result":  openapi.SchemaRef("EditorResult"),
						"error":   {Type: "string"},
					},
				},
				"can_submit": {Type: "boolean"},
			},
		},
	},
}
