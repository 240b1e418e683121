package ui

import (
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/TraceCanvas/pkg/geometry"
	schrender "github.com/OpenTraceLab/TraceCanvas/pkg/schematic/render"
	"github.com/OpenTraceLab/TraceCanvas/pkg/view"
)

// App drives the Gio-based schematic viewer window.
type App struct {
	window   *app.Window
	gvTheme  *theme.Theme
	explorer *explorer.Explorer
	viewer   *schrender.SchematicViewer
	shaper   *text.Shaper

	ops op.Ops

	dark bool

	openBtn   widget.Clickable
	fitBtn    widget.Clickable
	themeBtn  widget.Clickable
	layersBtn widget.Clickable

	layersMenu *menu.DropdownMenu

	openIcon   *widget.Icon
	fitIcon    *widget.Icon
	themeIcon  *widget.Icon
	layersIcon *widget.Icon

	// Canvas pointer gesture state.
	dragging   bool
	dragMoved  bool
	dragOrigin geometry.Vec2

	filepath   string
	statusText string
}

// Options configure the viewer window at startup.
type Options struct {
	Dark    bool
	MinZoom float64
	MaxZoom float64
}

// Run launches the Gio UI, optionally loading a schematic file first,
// and blocks until the window closes.
func Run(path string, opts Options) error {
	go func() {
		w := new(app.Window)
		w.Option(app.Title("TraceCanvas"), app.Size(unit.Dp(1200), unit.Dp(800)))
		ui := New(w, opts)
		if path != "" {
			if err := ui.LoadFile(path); err != nil {
				log.Printf("ui: %v", err)
			}
		}
		if err := ui.Run(); err != nil {
			log.Printf("ui: %v", err)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}

// New wires the Gio window, theme, and schematic viewer together.
func New(window *app.Window, opts Options) *App {
	if window == nil {
		window = new(app.Window)
	}
	gv := theme.NewTheme("", nil, true)

	colors := schrender.LightTheme()
	if opts.Dark {
		colors = schrender.DarkTheme()
	}

	a := &App{
		window:     window,
		gvTheme:    gv,
		explorer:   explorer.NewExplorer(window),
		viewer:     schrender.NewSchematicViewer(colors),
		shaper:     text.NewShaper(text.WithCollection(gofont.Collection())),
		dark:       opts.Dark,
		statusText: "No schematic loaded",
	}

	a.openIcon = makeIcon(icons.FileFolderOpen)
	a.fitIcon = makeIcon(icons.MapsZoomOutMap)
	a.themeIcon = makeIcon(icons.ImagePalette)
	a.layersIcon = makeIcon(icons.MapsLayers)

	a.viewer.Setup(1200, 800, func() { a.window.Invalidate() })
	if opts.MinZoom > 0 && opts.MaxZoom > opts.MinZoom {
		a.viewer.Viewport().EnablePanAndZoom(opts.MinZoom, opts.MaxZoom)
	}
	a.viewer.OnSelect(func(ev view.SelectEvent) {
		a.statusText = describeSelection(ev.Item)
	})
	a.viewer.OnMouseMove(func(p geometry.Vec2) {
		a.window.Invalidate()
	})

	a.layersMenu = a.buildLayersMenu()
	return a
}

// LoadFile parses the given schematic and shows it.
func (a *App) LoadFile(path string) error {
	if err := a.viewer.LoadFile(path); err != nil {
		a.statusText = fmt.Sprintf("Load failed: %v", err)
		return err
	}
	a.filepath = path
	a.statusText = fmt.Sprintf("Loaded %s", path)
	a.window.Option(app.Title("TraceCanvas - " + path))
	a.window.Invalidate()
	return nil
}

// Run processes Gio events until the window is closed.
func (a *App) Run() error {
	for {
		switch e := a.window.Event().(type) {
		case app.DestroyEvent:
			a.viewer.Dispose()
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, e)
			a.handleInput(gtx)
			a.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (a *App) handleInput(gtx layout.Context) {
	if a.openBtn.Clicked(gtx) {
		a.openFilePicker()
	}
	if a.fitBtn.Clicked(gtx) {
		a.viewer.ZoomToPage()
	}
	if a.themeBtn.Clicked(gtx) {
		a.toggleTheme()
	}
	if a.layersBtn.Clicked(gtx) {
		a.layersMenu.ToggleVisibility(gtx)
	}

	for {
		ev, ok := gtx.Event(key.Filter{Name: "O", Required: key.ModShortcut})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			a.openFilePicker()
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: "T", Required: key.ModShortcut})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			a.toggleTheme()
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: "F"})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			a.viewer.ZoomToPage()
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: "Z"})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			a.viewer.ZoomToSelection()
		}
	}
}

func (a *App) openFilePicker() {
	go func() {
		file, err := a.explorer.ChooseFile(".kicad_sch")
		if err != nil {
			if err != explorer.ErrUserDecline {
				log.Printf("ui: file picker: %v", err)
			}
			return
		}
		defer file.Close()

		if f, ok := file.(*os.File); ok {
			if err := a.LoadFile(f.Name()); err != nil {
				log.Printf("ui: %v", err)
			}
		}
	}()
}

func (a *App) toggleTheme() {
	a.dark = !a.dark
	if a.dark {
		a.viewer.SetTheme(schrender.DarkTheme())
	} else {
		a.viewer.SetTheme(schrender.LightTheme())
	}
	a.window.Invalidate()
}

func (a *App) buildLayersMenu() *menu.DropdownMenu {
	order := schrender.DisplayOrder()
	opts := make([]menu.MenuOption, 0, len(order))
	for _, name := range order {
		layerName := name
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				if layers := a.viewer.Layers(); layers != nil {
					l := layers.Layer(layerName)
					l.Visible = !l.Visible
					a.viewer.ScheduleDraw()
				}
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				label := layerName
				if layers := a.viewer.Layers(); layers != nil && !layers.Layer(layerName).Visible {
					label += " (hidden)"
				}
				lbl := material.Body1(th.Theme, label)
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(240)
	return drop
}

func makeIcon(data []byte) *widget.Icon {
	ic, err := widget.NewIcon(data)
	if err != nil {
		return nil
	}
	return ic
}
