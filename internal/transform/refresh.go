package transform

import (
	"fmt"
	"strings"
)

const refreshMarker = "__peaque_refresh_boundary__"

// WrapFastRefresh injects the fast-refresh preamble/trailer pair around
// source, keyed on modulePath. The wrapper is idempotent: if source
// already carries the marker for this exact module path, it is returned
// unchanged (spec.md §4.C "Fast-refresh wrapper").
func WrapFastRefresh(modulePath, source string) string {
	marker := fmt.Sprintf("// %s:%s", refreshMarker, modulePath)
	if strings.Contains(source, marker) {
		return source
	}

	preamble := fmt.Sprintf(
		"%s\nconst __prevRefreshReg = globalThis.$RefreshReg$;\nconst __prevRefreshSig = globalThis.$RefreshSig$;\nglobalThis.$RefreshReg$ = (type, id) => __peaqueRegister(%q, id, type);\nglobalThis.$RefreshSig$ = __peaqueCreateSignature();\n",
		marker, modulePath,
	)

	trailer := fmt.Sprintf(
		"\nglobalThis.$RefreshReg$ = __prevRefreshReg;\nglobalThis.$RefreshSig$ = __prevRefreshSig;\n__peaqueRefreshModule(%q);\n",
		modulePath,
	)

	return preamble + source + trailer
}
