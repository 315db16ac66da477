package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegisterSwagger_ServesYAMLAsJSON(t *testing.T) {
	dir := t.TempDir()
	spec := "swagger: \"2.0\"\ninfo:\n  title: TripWise API\n  version: \"1.0\"\npaths: {}\n"
	if err := os.WriteFile(filepath.Join(dir, "swagger.yaml"), []byte(spec), 0o600); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	e := NewRouter([]string{"*"})
	RegisterSwagger(e, dir)

	res := serve(t, e, http.MethodGet, "/swagger/doc.json", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `"title":"TripWise API"`) {
		t.Fatalf("expected JSON spec, got %s", res.Body.String())
	}
}

func TestRegisterSwagger_MissingSpec(t *testing.T) {
	e := NewRouter([]string{"*"})
	RegisterSwagger(e, t.TempDir())

	if res := serve(t, e, http.MethodGet, "/swagger/doc.json", "", nil); res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
}

func TestRepositorySwaggerSpecParses(t *testing.T) {
	e := NewRouter([]string{"*"})
	RegisterSwagger(e, filepath.Join("..", "..", "..", "docs"))

	res := serve(t, e, http.MethodGet, "/swagger/doc.json", "", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), "/api/v1/search/recommend") {
		t.Fatalf("expected recommend path in spec")
	}
}
