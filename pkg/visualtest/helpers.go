// Package visualtest renders templates to PNG files and compares
// rendered images against references.
package visualtest

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Drelf2018/vue2img/pkg/app"
)

// RenderToFile renders a template to a PNG file.
func RenderToFile(ctx context.Context, tmpl string, data map[string]any, outputPath string, width float64) error {
	return RenderToFileWithBase(ctx, tmpl, data, outputPath, width, "")
}

// RenderToFileWithBase renders a template with a base directory for
// resolving relative image paths.
func RenderToFileWithBase(ctx context.Context, tmpl string, data map[string]any, outputPath string, width float64, basePath string) error {
	opts := app.DefaultOptions()
	opts.Width = width
	opts.BaseDir = basePath
	img, err := app.Render(ctx, tmpl, data, opts)
	if err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return SavePNG(img, outputPath)
}

// RenderTemplateFile renders the template file at path, resolving
// images relative to its directory.
func RenderTemplateFile(ctx context.Context, path, outputPath string, width float64) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}
	return RenderToFileWithBase(ctx, string(content), nil, outputPath, width, filepath.Dir(path))
}

// UpdateReferenceImage re-renders a template file as its reference image.
func UpdateReferenceImage(ctx context.Context, path, referencePath string, width float64) error {
	if err := os.MkdirAll(filepath.Dir(referencePath), 0o755); err != nil {
		return err
	}
	return RenderTemplateFile(ctx, path, referencePath, width)
}

// LoadPNG decodes the PNG file at path.
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// SavePNG saves an image as PNG
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
