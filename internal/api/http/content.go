package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
)

// ContentPrefix is the route the editor content is served under.
const ContentPrefix = "/content"

// ContentHandler serves the editor content from dir, gzip-compressed when
// the client accepts it.
func ContentHandler(dir string) gin.HandlerFunc {
	files := http.StripPrefix(ContentPrefix, http.FileServer(http.Dir(dir)))
	return gin.WrapH(gzhttp.GzipHandler(files))
}
