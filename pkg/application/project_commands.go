package application

import "strings"

// CreateProjectCommand creates a project owned by an organization.
type CreateProjectCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	OwnerOrgID string `json:"owner_org_id"`
}

func (c CreateProjectCommand) CommandType() string { return "CreateProject" }

func (c CreateProjectCommand) Validate() error {
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
	if strings.TrimSpace(c.OwnerOrgID) == "" {
		return NewValidationError("owner_org_id", "owner organization ID cannot be empty")
	}
	return nil
}

// RenameProjectCommand changes a project's display name.
type RenameProjectCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	NewName    string `json:"new_name"`
}

func (c RenameProjectCommand) CommandType() string { return "RenameProject" }

func (c RenameProjectCommand) Validate() error {
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

// AddProjectMemberCommand grants userID a role on a project.
type AddProjectMemberCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
}

func (c AddProjectMemberCommand) CommandType() string { return "AddProjectMember" }

func (c AddProjectMemberCommand) Validate() error {
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

// RemoveProjectMemberCommand ends userID's project membership.
type RemoveProjectMemberCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
}

func (c RemoveProjectMemberCommand) CommandType() string { return "RemoveProjectMember" }

func (c RemoveProjectMemberCommand) Validate() error {
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

// DeactivateProjectCommand deactivates a project.
type DeactivateProjectCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
	Reason     string `json:"reason"`
}

func (c DeactivateProjectCommand) CommandType() string { return "DeactivateProject" }

func (c DeactivateProjectCommand) Validate() error {
	if strings.TrimSpace(c.InstanceID) == "" {
		return NewValidationError("instance_id", "instance ID cannot be empty")
	}
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "ID cannot be empty")
	}
	return nil
}

// ReactivateProjectCommand moves a deactivated project back to active.
type ReactivateProjectCommand struct {
	InstanceID string `json:"instance_id"`
	ID         string `json:"id"`
}

func (c ReactivateProjectCommand) CommandType() string { return "ReactivateProject" }

func (c ReactivateProjectCommand) Validate() error {
	if strings.TrimSpace(c.InstanceID) == "" {
		return NewValidationError("instance_id", "instance ID cannot be empty")
	}
	if strings.TrimSpace(c.ID) == "" {
		return NewValidationError("id", "ID cannot be empty")
	}
	return nil
}
