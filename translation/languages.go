package translation

// languageNames maps the short tags clients declare to the names the backend
// prompt expects. Unknown tags pass through unchanged: the backend copes with
// raw tags better than with a rejected message.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"zh": "Chinese",
	"ja": "Japanese",
	"pt": "Portuguese",
	"ru": "Russian",
}

func languageName(tag string) string {
	if name, ok := languageNames[tag]; ok {
		return name
	}
	return tag
}
