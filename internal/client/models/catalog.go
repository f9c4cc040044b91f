package models

import "time"

type Permission struct {
	ID          int        `json:"id"`
	DateCreated *time.Time `json:"dateCreated,omitempty"`
	RowVersion  string     `json:"rowVersion,omitempty"`
	Name        string     `json:"name"`
	Module      string     `json:"module,omitempty"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"isActive"`
}

type Role struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	PermissionIDs []int        `json:"permissionIds,omitempty"`
	Permissions   []Permission `json:"permissions,omitempty"`
	IsSystem      bool         `json:"isSystem"`
}

// State is a workflow state of a request, shown with its color.
type State struct {
	ID          int        `json:"id"`
	DateCreated *time.Time `json:"dateCreated,omitempty"`
	RowVersion  string     `json:"rowVersion,omitempty"`
	Name        string     `json:"name"`
	HexColor    string     `json:"hexColor,omitempty"`
	IsDeleted   bool       `json:"isDeleted"`
	IsSystem    bool       `json:"isSystem"`
}

type RequestType struct {
	ID          int        `json:"id"`
	DateCreated *time.Time `json:"dateCreated,omitempty"`
	RowVersion  string     `json:"rowVersion,omitempty"`
	Name        string     `json:"name"`
	Template    string     `json:"template,omitempty"`
	IsDeleted   bool       `json:"isDeleted"`
	IsActive    bool       `json:"isActive"`
	IsSystem    bool       `json:"isSystem"`
}

type FrequentQuestion struct {
	ID          int        `json:"id"`
	DateCreated *time.Time `json:"dateCreated,omitempty"`
	RowVersion  string     `json:"rowVersion,omitempty"`
	Question    string     `json:"question"`
	Response    string     `json:"response"`
}
