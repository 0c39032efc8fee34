package tool

import "strings"

// normalizeSearchMethod maps unset or unknown methods to keyword matching.
func normalizeSearchMethod(method string) string {
	switch m := strings.ToLower(strings.TrimSpace(method)); m {
	case SearchMethodRegex, SearchMethodSemantic, SearchMethodAuto:
		return m
	default:
		return SearchMethodMatch
	}
}

func describeSearchFiles(args Args) (string, error) {
	method := normalizeSearchMethod(args.SearchSettings.Method)

	backend := ""
	switch method {
	case SearchMethodRegex:
		backend = args.SearchSettings.RegexBackend
		if backend == "" {
			backend = "coreplugin"
		}
	case SearchMethodMatch:
		backend = args.SearchSettings.MatchBackend
		if backend == "" {
			backend = "coreplugin"
		}
	}

	return render(SearchFiles, descriptionData{
		Args:    args,
		Method:  method,
		Backend: backend,
	})
}
