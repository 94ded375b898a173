package i18n

var dictionaries = map[string]map[string]any{
	"en": {
		"required":  "This field is required.",
		"type":      "Must be of type {{requiredType}}",
		"enum":      "Must be one of: {{allowedValues}}",
		"const":     "Must be {{requiredValue}}",
		"minLength": "Must be {{minimumLength}} characters or longer (current length: {{currentLength}})",
		"maxLength": "Must be {{maximumLength}} characters or shorter (current length: {{currentLength}})",
		"pattern":   "Must match pattern: {{requiredPattern}}",
		"format": format(map[string]string{
			"date":                  `Must be a date, like "2000-12-31"`,
			"time":                  `Must be a time, like "16:20" or "03:14:15.9265"`,
			"date-time":             `Must be a date-time, like "2000-03-14T01:59" or "2000-03-14T01:59:26.535Z"`,
			"email":                 `Must be an email address, like "name@example.com"`,
			"hostname":              `Must be a hostname, like "example.com"`,
			"ipv4":                  `Must be an IPv4 address, like "127.0.0.1"`,
			"ipv6":                  `Must be an IPv6 address, like "1234:5678:9ABC:DEF0:1234:5678:9ABC:DEF0"`,
			"url":                   `Must be a url, like "http://www.example.com/page.html"`,
			"uuid":                  `Must be a uuid, like "12345678-9ABC-DEF0-1234-56789ABCDEF0"`,
			"color":                 `Must be a color, like "#FFFFFF"`,
			"json-pointer":          `Must be a JSON Pointer, like "/pointer/to/something"`,
			"relative-json-pointer": `Must be a relative JSON Pointer, like "2/pointer/to/something"`,
			"regex":                 `Must be a regular expression, like "(1-)?\d{3}-\d{3}-\d{4}"`,
		}, "Must be a correctly formatted {{requiredFormat}}"),
		"minimum":          "Must be {{minimumValue}} or more",
		"exclusiveMinimum": "Must be more than {{exclusiveMinimumValue}}",
		"maximum":          "Must be {{maximumValue}} or less",
		"exclusiveMaximum": "Must be less than {{exclusiveMaximumValue}}",
		"multipleOf":       multipleOf("Must have {{decimals}} or fewer decimal places.", "Must be a multiple of {{multipleOfValue}}."),
		"minProperties":    "Must have {{minimumProperties}} or more items (current items: {{currentProperties}})",
		"maxProperties":    "Must have {{maximumProperties}} or fewer items (current items: {{currentProperties}})",
		"dependencies":     "Missing dependent fields",
		"minItems":         "Must have {{minimumItems}} or more items (current items: {{currentItems}})",
		"maxItems":         "Must have {{maximumItems}} or fewer items (current items: {{currentItems}})",
		"uniqueItems":      "All items must be unique",
		"contains":         "Must contain {{requiredItem}}",
	},
	"de": {
		"required":         "Darf nicht leer sein",
		"minLength":        "Mindestens {{minimumLength}} Zeichen benötigt (aktuell: {{currentLength}})",
		"maxLength":        "Maximal {{maximumLength}} Zeichen erlaubt (aktuell: {{currentLength}})",
		"pattern":          "Entspricht nicht diesem regulären Ausdruck: {{requiredPattern}}",
		"format":           format(map[string]string{"date": `Muss ein Datum sein, z. B. "2000-12-31"`, "email": `Muss eine E-Mail-Adresse sein, z. B. "name@example.com"`}, "Muss ein gültiges {{requiredFormat}} sein"),
		"minimum":          "Muss mindestens {{minimumValue}} sein",
		"exclusiveMinimum": "Muss größer als {{exclusiveMinimumValue}} sein",
		"maximum":          "Darf maximal {{maximumValue}} sein",
		"exclusiveMaximum": "Muss kleiner als {{exclusiveMaximumValue}} sein",
		"multipleOf":       multipleOf("Maximal {{decimals}} Dezimalstellen erlaubt", "Muss ein Vielfaches von {{multipleOfValue}} sein"),
		"minItems":         "Mindestens {{minimumItems}} Elemente (aktuell: {{currentItems}})",
		"maxItems":         "Maximal {{maximumItems}} Elemente (aktuell: {{currentItems}})",
		"uniqueItems":      "Alle Elemente müssen eindeutig sein",
	},
	"es": {
		"required":         "Este campo está vacío.",
		"minLength":        "Debe tener {{minimumLength}} caracteres o más (longitud actual: {{currentLength}})",
		"maxLength":        "Debe tener {{maximumLength}} caracteres o menos (longitud actual: {{currentLength}})",
		"pattern":          "Debe seguir el patrón: {{requiredPattern}}",
		"format":           format(map[string]string{"date": `Debe ser una fecha, ej. "2000-12-31"`, "email": `Debe ser un email, ej. "name@example.com"`}, "Debe tener el formato {{requiredFormat}}"),
		"minimum":          "Debe ser {{minimumValue}} o más",
		"exclusiveMinimum": "Debe ser mayor que {{exclusiveMinimumValue}}",
		"maximum":          "Debe ser {{maximumValue}} o menos",
		"exclusiveMaximum": "Debe ser menor que {{exclusiveMaximumValue}}",
		"multipleOf":       multipleOf("Máximo {{decimals}} decimales.", "Debe ser múltiplo de {{multipleOfValue}}."),
		"minItems":         "Debe tener {{minimumItems}} elementos o más (elementos actuales: {{currentItems}})",
		"maxItems":         "Debe tener {{maximumItems}} elementos o menos (elementos actuales: {{currentItems}})",
		"uniqueItems":      "Todos los elementos deben ser distintos",
	},
	"fr": {
		"required":         "Est obligatoire.",
		"minLength":        "Doit avoir minimum {{minimumLength}} caractères (actuellement : {{currentLength}})",
		"maxLength":        "Doit avoir maximum {{maximumLength}} caractères (actuellement : {{currentLength}})",
		"pattern":          "Doit respecter : {{requiredPattern}}",
		"format":           format(map[string]string{"date": `Doit être une date, tel que "2000-12-31"`, "email": `Doit être une adresse e-mail, tel que "name@example.com"`}, "Doit être au format {{requiredFormat}}"),
		"minimum":          "Doit être supérieur à {{minimumValue}}",
		"exclusiveMinimum": "Doit avoir minimum {{exclusiveMinimumValue}} charactères",
		"maximum":          "Doit être inférieur à {{maximumValue}}",
		"exclusiveMaximum": "Doit avoir maximum {{exclusiveMaximumValue}} charactères",
		"multipleOf":       multipleOf("Doit comporter {{decimals}} ou moins de décimales.", "Doit être un multiple de {{multipleOfValue}}."),
		"minItems":         "Doit comporter au minimum {{minimumItems}} éléments (actuellement : {{currentItems}})",
		"maxItems":         "Doit comporter au maximum {{maximumItems}} éléments (actuellement : {{currentItems}})",
		"uniqueItems":      "Tous les éléments doivent être uniques",
	},
	"ja": {
		"required":         "必須項目です",
		"type":             "型が不正です（{{requiredType}}）",
		"minLength":        "{{minimumLength}}文字以上で入力してください（現在: {{currentLength}}文字）",
		"maxLength":        "{{maximumLength}}文字以下で入力してください（現在: {{currentLength}}文字）",
		"pattern":          "次のパターンに一致する必要があります: {{requiredPattern}}",
		"format":           format(map[string]string{"date": "日付を入力してください（例: 2000-12-31）", "email": "メールアドレスを入力してください（例: name@example.com）"}, "{{requiredFormat}}形式で入力してください"),
		"minimum":          "{{minimumValue}}以上の値を入力してください",
		"exclusiveMinimum": "{{exclusiveMinimumValue}}より大きい値を入力してください",
		"maximum":          "{{maximumValue}}以下の値を入力してください",
		"exclusiveMaximum": "{{exclusiveMaximumValue}}より小さい値を入力してください",
		"multipleOf":       multipleOf("小数点以下{{decimals}}桁以内で入力してください", "{{multipleOfValue}}の倍数を入力してください"),
		"minItems":         "{{minimumItems}}件以上必要です（現在: {{currentItems}}件）",
		"maxItems":         "{{maximumItems}}件以下にしてください（現在: {{currentItems}}件）",
		"uniqueItems":      "重複した項目があります",
	},
}
