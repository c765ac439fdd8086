package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/whiskers/pkg/openapi"
	"github.com/JaimeStill/whiskers/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/editor",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok},
			{Method: "PUT", Pattern: "/stickers/{id}", Handler: ok},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"view", "GET", "/editor"},
		{"move sticker", "PUT", "/editor/stickers/123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rec.Code)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/editor",
		Children: []routes.Group{
			{
				Prefix: "/stickers",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/catalog", Handler: ok},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/editor/stickers/catalog", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("nested route: got %d, want 200", rec.Code)
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("Whiskers API", "test")

	routes.Describe(spec, "/api", routes.Group{
		Prefix:      "/editor",
		Tags:        []string{"Editor"},
		Description: "Image editor",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok, OpenAPI: &openapi.Operation{Summary: "View editor"}},
			{Method: "POST", Pattern: "/selection", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/stickers",
				Routes: []routes.Route{
					{Method: "DELETE", Pattern: "/{id}", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Remove sticker"}},
				},
			},
		},
	})

	view := spec.Paths["/api/editor"]
	if view == nil || view.Get == nil {
		t.Fatal("expected GET /api/editor")
	}
	if len(view.Get.Tags) != 1 || view.Get.Tags[0] != "Editor" {
		t.Errorf("tags: got %v", view.Get.Tags)
	}

	if _, ok := spec.Paths["/api/editor/selection"]; ok {
		t.Error("undescribed route should not appear")
	}

	remove := spec.Paths["/api/editor/stickers/{id}"]
	if remove == nil || remove.Delete == nil {
		t.Fatal("expected DELETE /api/editor/stickers/{id}")
	}
	if remove.Delete.Tags[0] != "Editor" {
		t.Errorf("child should inherit tags: got %v", remove.Delete.Tags)
	}

	if len(spec.Tags) != 1 || spec.Tags[0].Name != "Editor" {
		t.Errorf("spec tags: got %+v", spec.Tags)
	}
}
