// Package navigation holds the per-session catalogue selection and the
// transitions that keep it consistent.
//
// A State is a plain value owned by exactly one browsing session. Nothing in
// this package is shared between sessions and no method blocks or fails:
// unknown ids are stored as given and resolved later by the catalogue.
// An empty id means "absent".
package navigation

// UserInfo is the contact captured on the register screen
type UserInfo struct {
	FullName string `json:"full_name"`
	Company  string `json:"company"`
	Email    string `json:"email"`
}

// Stage is the depth the selection has reached
type Stage string

const (
	StageEmpty           Stage = "empty"
	StageRegistered      Stage = "registered"
	StageBrandSelected   Stage = "brand-selected"
	StageSystemSelected  Stage = "system-selected"
	StageProductSelected Stage = "product-selected"
)

// State is the selection driving which catalogue screen is shown
type State struct {
	UserInfo  *UserInfo `json:"user_info,omitempty"`
	BrandID   string    `json:"brand_id,omitempty"`
	SystemID  string    `json:"system_id,omitempty"`
	ProductID string    `json:"product_id,omitempty"`
	History   []Route   `json:"history"`
}

// New returns the empty initial state
func New() *State {
	return &State{History: []Route{}}
}

// Register stores the contact info, replacing any previous registration
func (s *State) Register(info UserInfo) {
	s.UserInfo = &info
}

// SelectBrand sets the brand and clears system and product.
// An empty id deselects with the same clearing.
func (s *State) SelectBrand(brandID string) {
	s.BrandID = brandID
	s.SystemID = ""
	s.ProductID = ""
}

// SelectSystem sets the system and clears the product. The system is not
// checked against the selected brand.
func (s *State) SelectSystem(systemID string) {
	s.SystemID = systemID
	s.ProductID = ""
}

// SelectProduct sets the product only
func (s *State) SelectProduct(productID string) {
	s.ProductID = productID
}

// GoToBrands clears the brand and system, used by the "select brand" menu
func (s *State) GoToBrands() {
	s.SelectBrand("")
	s.SelectSystem("")
}

// PushRoute appends a route to the history
func (s *State) PushRoute(route Route) {
	s.History = append(s.History, route)
}

// PopRoute drops the last history entry and returns the route now on top,
// or RouteCover once the history is exhausted. It reports false without
// changing anything when the history was already empty.
func (s *State) PopRoute() (Route, bool) {
	if len(s.History) == 0 {
		return "", false
	}

	s.History = s.History[:len(s.History)-1]
	if len(s.History) == 0 {
		return RouteCover, true
	}
	return s.History[len(s.History)-1], true
}

// Current is the route on top of the history, or RouteCover when empty
func (s *State) Current() Route {
	if len(s.History) == 0 {
		return RouteCover
	}
	return s.History[len(s.History)-1]
}

// Reset restores the empty initial state
func (s *State) Reset() {
	*s = State{History: []Route{}}
}

// Stage reports how deep the selection goes
func (s *State) Stage() Stage {
	switch {
	case s.ProductID != "" && s.SystemID != "" && s.BrandID != "":
		return StageProductSelected
	case s.SystemID != "" && s.BrandID != "":
		return StageSystemSelected
	case s.BrandID != "":
		return StageBrandSelected
	case s.UserInfo != nil:
		return StageRegistered
	default:
		return StageEmpty
	}
}

// Clone returns a deep copy
func (s *State) Clone() *State {
	c := *s
	if s.UserInfo != nil {
		info := *s.UserInfo
		c.UserInfo = &info
	}
	c.History = append([]Route{}, s.History...)
	return &c
}
