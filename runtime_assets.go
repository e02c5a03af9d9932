package surveyform

import (
	"embed"
	"io/fs"
)

// RuntimeScript is the file name of the browser runtime inside RuntimeAssetsFS.
const RuntimeScript = "surveyform-runtime.js"

//go:embed pkg/runtime/assets/*.js
var embeddedRuntimeAssets embed.FS

// RuntimeAssetsFS exposes the browser runtime so Go applications can serve it
// next to rendered surveys.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(surveyform.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "pkg/runtime/assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
