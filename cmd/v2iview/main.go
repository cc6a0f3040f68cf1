package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/Drelf2018/vue2img/pkg/app"
	"github.com/Drelf2018/vue2img/pkg/config"
	"github.com/Drelf2018/vue2img/pkg/data"
)

func main() {
	cfgFile := flag.String("c", "", "config file")
	dataFile := flag.String("d", "", "data file (.json, .yaml or .hcl)")
	width := flag.Float64("w", 0, "canvas width in pixels")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: v2iview [flags] <template>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	opts := app.OptionsFromConfig(cfg)
	if *width > 0 {
		opts.Width = *width
	}
	opts.BaseDir = filepath.Dir(path)
	renderer := app.New(opts)

	render := func() (*image.RGBA, error) {
		tmpl, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		values := map[string]any{}
		if *dataFile != "" {
			if values, err = data.Load(*dataFile); err != nil {
				return nil, err
			}
		}
		return renderer.Mount(string(tmpl), values).Export(context.Background())
	}

	a := fyneapp.New()
	w := a.NewWindow("vue2img - " + filepath.Base(path))

	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	canvasImg.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel("Rendering " + path + "...")

	reload := func() {
		img, err := render()
		if err != nil {
			status.SetText("Render error: " + err.Error())
			return
		}
		canvasImg.Image = img
		canvasImg.Refresh()
		status.SetText(fmt.Sprintf("%s  %dx%d", path, img.Bounds().Dx(), img.Bounds().Dy()))
	}
	button := widget.NewButton("Reload", reload)

	content := container.NewBorder(button, status, nil, nil, container.NewScroll(canvasImg))
	w.SetContent(content)
	w.Resize(fyne.NewSize(float32(opts.Width)+40, 700))

	reload()
	w.ShowAndRun()
}
