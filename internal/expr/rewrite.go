package expr

import "regexp"

// identPattern matches bare identifiers in a parameter expression. Go
// regexp lacks negative lookahead, so clog2 is filtered out afterward.
var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

const clog2Ident = "clog2"

// identifiers returns the distinct parameter names source references,
// in first-occurrence order (excluding the clog2 intrinsic name).
func identifiers(source string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, m := range identPattern.FindAllString(source, -1) {
		if m == clog2Ident || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out, nil
}

// rewriteIdents rewrites every bare parameter identifier in source into a
// lookup against the "params" map CEL variable, e.g. "n + 1" becomes
// "params[\"n\"] + 1". clog2 is left alone as a function call.
func rewriteIdents(source string) string {
	return identPattern.ReplaceAllStringFunc(source, func(m string) string {
		if m == clog2Ident {
			return m
		}
		return `params["` + m + `"]`
	})
}
