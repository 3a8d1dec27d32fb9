package devserver

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"regexp"
)

func compileRegexps(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			compiled = append(compiled, re)
		}
	}
	return compiled
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

var runtimeAssets = map[string]string{
	"/peaque-dev.js":     "application/javascript; charset=utf-8",
	"/peaque-loader.js":  "application/javascript; charset=utf-8",
	"/peaque.js":         "application/javascript; charset=utf-8",
	"/peaque.css":        "text/css; charset=utf-8",
}

func isRuntimeAsset(p string) bool {
	_, ok := runtimeAssets[p]
	return ok
}

// serveRuntimeAsset generates the framework runtime assets on demand
// (spec.md §4.E row 5). The dev and loader scripts are hand-maintained
// constants; /peaque.js is regenerated from the current page router so
// the browser always fetches an entry matching the live route tree.
func (s *Server) serveRuntimeAsset(w http.ResponseWriter, r *http.Request, p string) {
	contentType := runtimeAssets[p]
	w.Header().Set("Content-Type", contentType)

	switch p {
	case "/peaque.js":
		_, _ = w.Write([]byte(s.renderFrontendEntry()))
	case "/peaque.css":
		_, _ = w.Write([]byte(runtimeCSS))
	case "/peaque-dev.js":
		_, _ = w.Write([]byte(runtimeDevScript))
	case "/peaque-loader.js":
		_, _ = w.Write([]byte(runtimeLoaderScript))
	}
}

const runtimeCSS = "/* peaque runtime styles */\n"

const runtimeDevScript = `(() => {
  const socket = new WebSocket("ws://" + location.host + "/hmr");
  socket.addEventListener("message", (ev) => {
    const { data } = JSON.parse(ev.data);
    if (data.path === "/peaque.js") {
      import(data.path + "?t=" + Date.now()).then(() => location.reload());
      return;
    }
    import(data.path + "?t=" + Date.now());
  });
})();
`

const runtimeLoaderScript = `import "/peaque-dev.js";
import "/peaque.js";
`
