package navigation

// Route identifies one screen of the catalogue flow
type Route string

const (
	RouteCover    Route = "/"
	RouteRegister Route = "/register"
	RouteBrand    Route = "/brand"
	RouteSystem   Route = "/system"
	RouteProducts Route = "/products"
	RouteProduct  Route = "/product"
)

// Sequence is the screen order of the flow
var Sequence = []Route{RouteCover, RouteRegister, RouteBrand, RouteSystem, RouteProducts, RouteProduct}

// ParseRoute accepts a route path or its bare screen name ("products")
func ParseRoute(s string) (Route, bool) {
	for _, r := range Sequence {
		if string(r) == s || (r != RouteCover && string(r)[1:] == s) {
			return r, true
		}
	}
	if s == "cover" {
		return RouteCover, true
	}
	return "", false
}

// Guard returns the screen that should actually be shown when route is
// requested with the given state. A screen whose prerequisite selection is
// missing redirects to the screen that makes that selection.
func Guard(route Route, s *State) Route {
	switch route {
	case RouteSystem:
		if s.BrandID == "" {
			return RouteBrand
		}
	case RouteProducts:
		if s.BrandID == "" {
			return RouteBrand
		}
		if s.SystemID == "" {
			return RouteSystem
		}
	case RouteProduct:
		if s.BrandID == "" {
			return RouteBrand
		}
		if s.SystemID == "" {
			return RouteSystem
		}
		if s.ProductID == "" {
			return RouteProducts
		}
	}
	return route
}

// BackTarget is the screen the back button leads to. The cover has no
// predecessor and maps to itself.
func BackTarget(route Route) Route {
	switch route {
	case RouteProduct:
		return RouteProducts
	case RouteProducts:
		return RouteSystem
	case RouteSystem:
		return RouteBrand
	case RouteBrand:
		return RouteRegister
	case RouteRegister:
		return RouteCover
	default:
		return RouteCover
	}
}

// Next is the screen reached after completing route
func Next(route Route) (Route, bool) {
	for i, r := range Sequence {
		if r == route && i+1 < len(Sequence) {
			return Sequence[i+1], true
		}
	}
	return "", false
}
