// Package dto provides Data Transfer Objects for API responses.
package dto

// PaginationResponse contains pagination metadata.
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginationResponse creates pagination response.
func NewPaginationResponse(page, pageSize int, totalItems int64) PaginationResponse {
	totalPages := int(totalItems) / pageSize
	if int(totalItems)%pageSize > 0 {
		totalPages++
	}
	return PaginationResponse{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// ListResponse wraps query results with pagination.
type ListResponse struct {
	Data       []map[string]any   `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// FilterDescriptor describes one declared filter for the metadata endpoint.
type FilterDescriptor struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Aliases   []string `json:"aliases,omitempty"`
	Single    bool     `json:"single,omitempty"`
	Required  bool     `json:"required,omitempty"`
	DependsOn string   `json:"dependsOn,omitempty"`
	Guarded   bool     `json:"guarded,omitempty"`
}

// ResourceDescriptor describes one resource for the metadata endpoint.
type ResourceDescriptor struct {
	Name        string             `json:"name"`
	DefaultSort string             `json:"defaultSort"`
	MaxPageSize int                `json:"maxPageSize"`
	Filters     []FilterDescriptor `json:"filters"`
}
