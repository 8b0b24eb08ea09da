package service

import "catalogue-service/internal/navigation"

// RegisterRequest is the register form
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Company  string `json:"company" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// UserInfo converts the form into the stored contact
func (r RegisterRequest) UserInfo() navigation.UserInfo {
	return navigation.UserInfo{FullName: r.FullName, Company: r.Company, Email: r.Email}
}

// SelectBrandRequest selects a brand; an empty id deselects
type SelectBrandRequest struct {
	BrandID string `json:"brand_id"`
}

// SelectSystemRequest selects a system; an empty id deselects
type SelectSystemRequest struct {
	SystemID string `json:"system_id"`
}

// SelectProductRequest selects a product; an empty id deselects
type SelectProductRequest struct {
	ProductID string `json:"product_id"`
}

// AnnotateRequest carries free text to highlight
type AnnotateRequest struct {
	Text string `json:"text"`
}
