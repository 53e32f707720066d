// Package model contains the domain structs shared across packages.
package model

import "time"

// Role distinguishes citizens from back-office staff.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Status is the review lifecycle of an application. Admins may set any status
// at any time; there is no enforced transition order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// ValidStatus reports whether s is one of the four review states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// User is a citizen or admin profile. ID is the identity provider's opaque
// user id, not something we generate.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service is a catalog entry. RequiredDocuments is an ordered list of
// free-text labels, one uploaded file expected per label at submission time.
type Service struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	RequiredDocuments []string  `json:"requiredDocuments"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Application is a submitted service request. Code is the human-readable
// tracking id of the form DSC-######.
type Application struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	UserID    string    `json:"userId"`
	ServiceID string    `json:"serviceId"`
	Status    Status    `json:"status"`
	Remarks   string    `json:"remarks,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Document is one uploaded file attached to an application. Label matches a
// required-document string from the service at submission time. ObjectKey is
// the blob-store key; FileURL the public URL derived from it.
type Document struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Label         string    `json:"label"`
	FileURL       string    `json:"fileUrl"`
	ObjectKey     string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ApplicationSummary is an application joined with the names shown in list
// views (customer dashboard, admin dashboard, tracking).
type ApplicationSummary struct {
	Application
	ServiceName   string `json:"serviceName"`
	ApplicantName string `json:"applicantName,omitempty"`
}

// ApplicationDetail is the fully expanded view used by the review and detail
// pages: the application with its owner, service, and documents.
type ApplicationDetail struct {
	Application
	User      User       `json:"user"`
	Service   Service    `json:"service"`
	Documents []Document `json:"documents"`
}
