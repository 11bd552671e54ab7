package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePrefix = "tasktrack/internal/modules/"

// importsUnder returns every .go file under root (tests excluded) with the
// import paths it declares.
func importsUnder(t *testing.T, root string) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()
	out := map[string][]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		slash := filepath.ToSlash(path)
		for _, imp := range node.Imports {
			out[slash] = append(out[slash], strings.Trim(imp.Path.Value, `"`))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return out
}

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	for path, imports := range importsUnder(t, filepath.Join("..", "modules")) {
		module := moduleName(path)
		layer := detectLayer(path)
		if module == "" || layer == "" {
			continue
		}
		for _, importPath := range imports {
			if !strings.Contains(importPath, modulePrefix) {
				continue
			}
			if violatesLayerRule(module, layer, importPath) {
				t.Fatalf("forbidden import in %s (%s): %s", path, layer, importPath)
			}
		}
	}
}

// The idle monitor only publishes messages; it must not know the tracker.
func TestIdleModuleDoesNotImportTracker(t *testing.T) {
	t.Parallel()
	for path, imports := range importsUnder(t, filepath.Join("..", "modules", "idle")) {
		for _, importPath := range imports {
			if strings.HasPrefix(importPath, modulePrefix+"tracker") {
				t.Fatalf("%s imports %s", path, importPath)
			}
		}
	}
}

func TestPlatformAndUIStayOutOfModuleInternals(t *testing.T) {
	t.Parallel()
	for _, root := range []string{"platform", "ui"} {
		for path, imports := range importsUnder(t, filepath.Join("..", root)) {
			for _, importPath := range imports {
				if !strings.HasPrefix(importPath, modulePrefix) {
					continue
				}
				if root == "platform" || !isDTO(importPath) {
					t.Fatalf("%s imports %s", path, importPath)
				}
			}
		}
	}
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func isPortIn(path string) bool {
	return strings.Contains(path, "/port/in/") || strings.HasSuffix(path, "/port/in")
}

func isDTO(path string) bool {
	return strings.Contains(path, "/dto/") || strings.HasSuffix(path, "/dto")
}

func violatesLayerRule(module, layer, importPath string) bool {
	sameModule := strings.Contains(importPath, "/internal/modules/"+module+"/")
	if !sameModule {
		if strings.Contains(importPath, "/service") || strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase") {
			return true
		}
		if isPortIn(importPath) || isDTO(importPath) {
			return false
		}
	}

	switch layer {
	case "adapter/in":
		return !isPortIn(importPath) && !isDTO(importPath)
	case "usecase":
		return strings.Contains(importPath, "/adapter/")
	case "service":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase")
	case "domain", "dto":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase") || strings.Contains(importPath, "/service")
	default:
		return false
	}
}
