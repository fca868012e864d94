package application

import "strings"

// CreateOrganizationCommand creates a new organization within an instance.
type CreateOrganizationCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

func (c CreateOrganizationCommand) CommandType() string { return "CreateOrganization" }

func (c CreateOrganizationCommand) Validate() error {
	if strings.TrimSpace(c.InstanceID) == "" {
		return NewValidationError("instance_id", "instance ID cannot be empty")
	}
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "ID cannot be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "name cannot be empty")
	}
	if strings.TrimSpace(c.Slug) == "" {
		return NewValidationError("slug", "slug cannot be empty")
	}
	return nil
}

// RenameOrganizationCommand changes an organization's display name.
type RenameOrganizationCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	NewName    string `json:"new_name"`
}

func (c RenameOrganizationCommand) CommandType() string { return "RenameOrganization" }

func (c RenameOrganizationCommand) Validate() error {
	if strings.TrimSpace(c.InstanceID) == "" {
		return NewValidationError("instance_id", "instance ID cannot be empty")
	}
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "ID cannot be empty")
	}
	if strings.TrimSpace(c.NewName) == "" {
		return NewValidationError("new_name", "new name cannot be empty")
	}
	return nil
}

// AddOrganizationMemberCommand adds userID to an organization with role.
type AddOrganizationMemberCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
}

func (c AddOrganizationMemberCommand) CommandType() string { return "AddOrganizationMember" }

func (c AddOrganizationMemberCommand) Validate() error {
	if strings.TrimSpace(c.InstanceID) == "" {
		return NewValidationError("instance_id", "instance ID cannot be empty")
	}
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "ID cannot be empty")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return NewValidationError("user_id", "user ID cannot be empty")
	}
	if strings.TrimSpace(c.Role) == "" {
		return NewValidationError("role", "role cannot be empty")
	}
	return nil
}

// RemoveOrganizationMemberCommand removes userID from an organization.
type RemoveOrganizationMemberCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
}

func (c RemoveOrganizationMemberCommand) CommandType() string { return "RemoveOrganizationMember" }

func (c RemoveOrganizationMemberCommand) Validate() error {
	if strings.TrimSpace(c.InstanceID) == "" {
		return NewValidationError("instance_id", "instance ID cannot be empty")
	}
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "ID cannot be empty")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return NewValidationError("user_id", "user ID cannot be empty")
	}
	return nil
}

// DeactivateOrganizationCommand deactivates an organization.
type DeactivateOrganizationCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	Reason     string `json:"reason"`
}

func (c DeactivateOrganizationCommand) CommandType() string { return "DeactivateOrganization" }

func (c DeactivateOrganizationCommand) Validate() error {
	if strings.TrimSpace(c.InstanceID) == "" {
		return NewValidationError("instance_id", "instance ID cannot be empty")
	}
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "ID cannot be empty")
	}
	return nil
}

// ReactivateOrganizationCommand moves a deactivated organization back to active.
type ReactivateOrganizationCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
}

func (c ReactivateOrganizationCommand) CommandType() string { return "ReactivateOrganization" }

func (c ReactivateOrganizationCommand) Validate() error {
	if strings.TrimSpace(c.InstanceID) == "" {
		return NewValidationError("instance_id", "instance ID cannot be empty")
	}
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "ID cannot be empty")
	}
	return nil
}
