package web

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/mmynk/paysplit/internal/splitmethod"
)

// Route names outside the payment split method entity.
const (
	RouteLogin   = "user.login"
	RouteLogout  = "user.logout"
	RouteMetrics = "system.metrics"
)

const adminBase = "/admin/store/config/payment-split"

// Routes maps route names to path templates such as "/method/{id}".
type Routes map[string]string

// DefaultRoutes returns the admin routes.
func DefaultRoutes() Routes {
	return Routes{
		splitmethod.RouteCollection: adminBase,
		splitmethod.RouteAddForm:    adminBase + "/add/{plugin_id}",
		splitmethod.RouteEditForm:   adminBase + "/method/{id}",
		splitmethod.RouteDeleteForm: adminBase + "/method/{id}/delete",
		splitmethod.RouteEnable:     adminBase + "/method/{id}/enable",
		splitmethod.RouteDisable:    adminBase + "/method/{id}/disable",
		splitmethod.RoutePlugins:    adminBase + "/plugins",
		RouteLogin:                  "/admin/login",
		RouteLogout:                 "/admin/logout",
		RouteMetrics:                "/metrics",
	}
}

// Path returns the raw path template of route.
func (r Routes) Path(route string) string {
	return r[route]
}

// URL fills the path parameters of route from params. Parameters that do
// not appear in the path are appended as a query string.
func (r Routes) URL(route string, params map[string]string) (string, error) {
	path, ok := r[route]
	if !ok {
		return "", fmt.Errorf("unknown route %q", route)
	}

	query := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		placeholder := "{" + k + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(params[k]))
			continue
		}
		query.Set(k, params[k])
	}

	if i := strings.IndexByte(path, '{'); i >= 0 {
		return "", fmt.Errorf("route %q: missing parameter in %s", route, path[i:])
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return path, nil
}
