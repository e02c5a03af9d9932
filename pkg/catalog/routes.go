package catalog

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes registers the answers handler under basePath on mux and
// returns the pattern used.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers a handler under basePath using a
// pre-built Options value. The route path of the handler is rewritten to
// include basePath so question ids resolve correctly.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("catalog: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	pattern := mountPath(basePath, opts.RoutePath)
	opts.RoutePath = pattern
	mux.Handle(pattern, HandlerWithOptions(opts))
	return pattern, nil
}

// AnswersPath returns the URL path of a question's answers under basePath
// using the default route.
func AnswersPath(basePath string, questionID int) string {
	return answersPath(mountPath(basePath, defaultRoutePath), strconv.Itoa(questionID))
}

func answersPath(prefix, questionID string) string {
	return routePrefix(prefix) + questionID + "/answers/"
}

func routePrefix(routePath string) string {
	routePath = strings.TrimSpace(routePath)
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}
	if !strings.HasSuffix(routePath, "/") {
		routePath += "/"
	}
	return routePath
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = routePrefix(routePath)

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
