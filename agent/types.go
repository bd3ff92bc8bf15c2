package agent

// Route is the closed set of retrieval paths a prompt can be classified
// into. The router never invents a new path; an unrecognized answer falls
// back to DefaultRoute.
type Route string

const (
	RouteSearchAndImages Route = "search_and_images"
	RouteSearchOnly      Route = "search_only"
	RouteImagesOnly      Route = "images_only"
	RouteRagEnhanced     Route = "rag_enhanced"
	RouteRagOnly         Route = "rag_only"
	RouteNone            Route = "none"
)

// DefaultRoute is the degradation target for every routing failure.
const DefaultRoute = RouteSearchAndImages

var allRoutes = []Route{
	RouteSearchAndImages,
	RouteSearchOnly,
	RouteImagesOnly,
	RouteRagEnhanced,
	RouteRagOnly,
	RouteNone,
}

// RouteNames lists every valid path string, in declaration order.
func RouteNames() []string {
	names := make([]string, 0, len(allRoutes))
	for _, r := range allRoutes {
		names = append(names, string(r))
	}
	return names
}

// ParseRoute maps a raw string onto the closed route set.
func ParseRoute(s string) (Route, bool) {
	for _, r := range allRoutes {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// NeedsDocuments reports whether the route reads from the user's
// document store.
func (r Route) NeedsDocuments() bool {
	return r == RouteRagEnhanced || r == RouteRagOnly
}

func (r Route) String() string { return string(r) }
