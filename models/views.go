package models

// Joined shapes returned by mutating operations, so the caller gets the
// full entity graph back without issuing follow-up reads.

// ProjectMemberDetail is a project membership joined with the member's user.
type ProjectMemberDetail struct {
	ProjectMember `bson:",inline"`
	User          User `json:"user"`
}

// TaskDetail is a task joined with its assignee, when one is set.
type TaskDetail struct {
	Task     `bson:",inline"`
	Assignee *User `json:"assignee,omitempty"`
}

// ProjectDetail is a project joined with its team lead, members and tasks.
type ProjectDetail struct {
	Project  `bson:",inline"`
	TeamLead *User                 `json:"teamLead,omitempty"`
	Members  []ProjectMemberDetail `json:"members"`
	Tasks    []TaskDetail          `json:"tasks"`
}
