package framework

// Builtins returns fresh copies of the bundled framework adapters.
func Builtins() []Adapter {
	return []Adapter{
		&Static{F: Framework{Name: "no-framework", Text: "None (plain HTML)"}},
		&Static{F: Framework{
			Name:        "bootstrap-3",
			Text:        "Bootstrap 3",
			Stylesheets: []string{"//maxcdn.bootstrapcdn.com/bootstrap/3.3.7/css/bootstrap.min.css"},
			Scripts: []string{
				"//ajax.googleapis.com/ajax/libs/jquery/2.2.4/jquery.min.js",
				"//maxcdn.bootstrapcdn.com/bootstrap/3.3.7/js/bootstrap.min.js",
			},
			WidgetStyles: map[string]any{
				"__all__":  map[string]any{"htmlClass": "form-group", "fieldHtmlClass": "form-control", "labelHtmlClass": "control-label"},
				"checkbox": map[string]any{"itemLabelHtmlClass": "checkbox"},
				"radios":   map[string]any{"itemLabelHtmlClass": "radio"},
				"submit":   map[string]any{"fieldHtmlClass": "btn btn-info"},
				"tabarray": map[string]any{"labelHtmlClass": "nav nav-tabs"},
				"alert":    map[string]any{"htmlClass": "alert alert-info"},
				"help":     map[string]any{"htmlClass": "help-block"},
				"fieldset": map[string]any{"htmlClass": "panel panel-default"},
				"button":   map[string]any{"fieldHtmlClass": "btn btn-default"},
			},
			Widgets: []string{"alt-date", "alt-datetime", "tabs"},
		}},
		&Static{F: Framework{
			Name:        "bootstrap-4",
			Text:        "Bootstrap 4",
			Stylesheets: []string{"//stackpath.bootstrapcdn.com/bootstrap/4.6.2/css/bootstrap.min.css"},
			Scripts: []string{
				"//code.jquery.com/jquery-3.6.0.slim.min.js",
				"//cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/js/bootstrap.bundle.min.js",
			},
			WidgetStyles: map[string]any{
				"__all__":  map[string]any{"htmlClass": "form-group", "fieldHtmlClass": "form-control", "labelHtmlClass": "control-label"},
				"checkbox": map[string]any{"fieldHtmlClass": "form-check-input", "itemLabelHtmlClass": "form-check-label"},
				"submit":   map[string]any{"fieldHtmlClass": "btn btn-info"},
				"alert":    map[string]any{"htmlClass": "alert alert-info"},
				"fieldset": map[string]any{"htmlClass": "card"},
				"button":   map[string]any{"fieldHtmlClass": "btn btn-secondary"},
			},
			Widgets: []string{"tabs"},
		}},
		&Themed{
			Static: Static{F: Framework{
				Name:        "bootstrap-5",
				Text:        "Bootstrap 5",
				Stylesheets: []string{"//cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"},
				Scripts:     []string{"//cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"},
				WidgetStyles: map[string]any{
					"__all__":  map[string]any{"htmlClass": "mb-3", "fieldHtmlClass": "form-control", "labelHtmlClass": "form-label"},
					"checkbox": map[string]any{"fieldHtmlClass": "form-check-input", "itemLabelHtmlClass": "form-check-label"},
					"select":   map[string]any{"fieldHtmlClass": "form-select"},
					"submit":   map[string]any{"fieldHtmlClass": "btn btn-primary"},
					"alert":    map[string]any{"htmlClass": "alert alert-info"},
					"fieldset": map[string]any{"htmlClass": "card"},
					"button":   map[string]any{"fieldHtmlClass": "btn btn-secondary"},
				},
				Widgets: []string{"tabs"},
			}},
			ThemeSet: NewThemeSet(
				Theme{Name: "bootstrap-5-light", Text: "Bootstrap 5 Light"},
				Theme{Name: "bootstrap-5-dark", Text: "Bootstrap 5 Dark"},
			),
		},
		&Static{F: Framework{
			Name:        "material-design",
			Text:        "Material Design",
			Stylesheets: []string{"//fonts.googleapis.com/icon?family=Material+Icons"},
			WidgetStyles: map[string]any{
				"__all__":  map[string]any{"htmlClass": "mat-form-field"},
				"checkbox": map[string]any{"htmlClass": "mat-checkbox"},
				"submit":   map[string]any{"fieldHtmlClass": "mat-raised-button"},
			},
			Widgets: []string{
				"checkbox", "checkboxes", "date", "number", "radios", "select",
				"slider", "submit", "tabs", "text", "textarea",
			},
		}},
		&Themed{
			Static: Static{F: Framework{
				Name:        "daisyui",
				Text:        "DaisyUI",
				Stylesheets: []string{"//cdn.jsdelivr.net/npm/daisyui@4.12.10/dist/full.min.css"},
				WidgetStyles: map[string]any{
					"__all__":  map[string]any{"htmlClass": "form-control", "fieldHtmlClass": "input input-bordered", "labelHtmlClass": "label"},
					"checkbox": map[string]any{"fieldHtmlClass": "checkbox"},
					"radios":   map[string]any{"fieldHtmlClass": "radio"},
					"select":   map[string]any{"fieldHtmlClass": "select select-bordered"},
					"textarea": map[string]any{"fieldHtmlClass": "textarea textarea-bordered"},
					"submit":   map[string]any{"fieldHtmlClass": "btn btn-primary"},
					"alert":    map[string]any{"htmlClass": "alert alert-info"},
				},
				Widgets: []string{"tabs"},
			}},
			ThemeSet: NewThemeSet(
				Theme{Name: "daisyui_light", Text: "DaisyUI Light"},
				Theme{Name: "daisyui_dark", Text: "DaisyUI Dark"},
				Theme{Name: "daisyui_cupcake", Text: "DaisyUI Cupcake"},
			),
		},
	}
}
