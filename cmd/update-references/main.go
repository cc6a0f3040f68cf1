package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Drelf2018/vue2img/pkg/visualtest"
)

// Regenerates reference images for visual regression tests. Each
// template dir/name.vue gets dir/reference/name.png.
func main() {
	width := flag.Float64("w", 400, "canvas width in pixels")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Println("Reference Image Generator for vue2img")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/update-references [-w width] <template.vue>...")
		os.Exit(1)
	}

	for _, path := range flag.Args() {
		ref := referencePath(path)
		fmt.Printf("Generating: %s\n", ref)
		if err := visualtest.UpdateReferenceImage(context.Background(), path, ref, *width); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to generate %s: %v\n", ref, err)
			os.Exit(1)
		}
	}
	fmt.Printf("✓ %d reference images generated\n", flag.NArg())
}

func referencePath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(filepath.Dir(path), "reference", name+".png")
}
