// Package models defines domain records for BizTask.
//
// Records carry no behavior; the store package owns every mutation. Enumerations
// serialize with the upper-case values the dashboard client expects.
package models

import "time"

// Role is a user's organizational role. It drives menu display only.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// TaskStatus constants.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

// TaskStatuses lists every task status in board order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusDone,
}

// TaskPriority constants.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// ProjectStatus constants.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
)

// CandidateStatus constants.
type CandidateStatus string

const (
	CandidateStatusPending   CandidateStatus = "PENDING"
	CandidateStatusInterview CandidateStatus = "INTERVIEW"
	CandidateStatusRejected  CandidateStatus = "REJECTED"
)

// ChannelType constants.
type ChannelType string

const (
	ChannelTypePublic  ChannelType = "PUBLIC"
	ChannelTypePrivate ChannelType = "PRIVATE"
	ChannelTypeDirect  ChannelType = "DIRECT"
)

// Theme is the session color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ChatMessageType constants.
type ChatMessageType string

const (
	ChatMessageText  ChatMessageType = "text"
	ChatMessageImage ChatMessageType = "image"
)

// Sender sentinels used by the assistant widget.
const (
	SenderAssistant = "ai"
	SenderGuest     = "guest"
)

// User represents an employee account.
type User struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Email        string  `json:"email" yaml:"email"`
	Role         Role    `json:"role" yaml:"role"`
	Avatar       string  `json:"avatar" yaml:"avatar"`
	DepartmentID *string `json:"department_id,omitempty" yaml:"department_id"`
	IsOnline     bool    `json:"is_online" yaml:"is_online"`
}

// Department represents an organizational unit.
type Department struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	ManagerID   *string `json:"manager_id,omitempty" yaml:"manager_id"`
	MemberCount int     `json:"member_count" yaml:"member_count"`
}

// Project represents a body of work with its own chat channel.
type Project struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Status      ProjectStatus `json:"status" yaml:"status"`
	Progress    int           `json:"progress" yaml:"progress"`
}

// Task represents a unit of work assigned to a user.
type Task struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	AssigneeID  string       `json:"assignee_id" yaml:"assignee_id"`
	CreatorID   string       `json:"creator_id" yaml:"creator_id"`
	ProjectID   *string      `json:"project_id,omitempty" yaml:"project_id"`
	Status      TaskStatus   `json:"status" yaml:"status"`
	Priority    TaskPriority `json:"priority" yaml:"priority"`
	DueDate     string       `json:"due_date" yaml:"due_date"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
}

// Candidate represents a job applicant.
type Candidate struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Email       string          `json:"email" yaml:"email"`
	Position    string          `json:"position" yaml:"position"`
	AppliedDate string          `json:"applied_date" yaml:"applied_date"`
	Avatar      string          `json:"avatar" yaml:"avatar"`
	Status      CandidateStatus `json:"status" yaml:"status"`
}

// Channel is a named internal message stream.
type Channel struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Type      ChannelType `json:"type" yaml:"type"`
	ProjectID *string     `json:"project_id,omitempty" yaml:"project_id"`
}

// GroupMessage is a message posted to a Channel.
type GroupMessage struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMessage is an entry in the assistant widget log.
type ChatMessage struct {
	ID        string          `json:"id"`
	SenderID  string          `json:"sender_id"`
	Text      string          `json:"text"`
	Timestamp time.Time       `json:"timestamp"`
	IsRead    bool            `json:"is_read"`
	Type      ChatMessageType `json:"type"`
	ReplyTo   string          `json:"reply_to,omitempty"`
}

// Partner is a strategic partner listed on the dashboard.
type Partner struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Logo        string `json:"logo" yaml:"logo"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// IsValidRole reports whether r is a known role.
func IsValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsValidTaskStatus reports whether s is a known task status.
func IsValidTaskStatus(s TaskStatus) bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsValidTaskPriority reports whether p is a known priority.
func IsValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// IsValidProjectStatus reports whether s is a known project status.
func IsValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}
