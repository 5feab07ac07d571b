package usecase

import "github.com/xavierca1/ligue-crm/internal/entity"

type CreateLeadInput struct {
	FullName    string            `json:"full_name"`
	PhoneNumber string            `json:"phone_number"`
	Email       string            `json:"email"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	Address     string            `json:"address"`
	Service     string            `json:"service_interested"`
	ClinicName  string            `json:"clinic_name"`
	Source      string            `json:"lead_source"`
	Status      string            `json:"status"`
	OwnerID     *int64            `json:"assigned_owner_id"`
	GroupID     *int64            `json:"group_id"`
	CreatedBy   *int64            `json:"created_by"`
	CustomData  map[string]string `json:"custom_questions"`
}

type UpdateLeadStatusInput struct {
	LeadID               string
	Status               string
	ActorID              *int64
	Notes                string
	TriggerAutoResponder bool
}

type AssignLeadInput struct {
	LeadID  string
	OwnerID int64
	Notes   string
	ActorID *int64
}

type AssignLeadOutput struct {
	LeadID     string `json:"lead_id"`
	OldOwnerID *int64 `json:"old_owner_id"`
	NewOwnerID int64  `json:"new_owner_id"`
	AssignedBy *int64 `json:"assigned_by"`
}

type CreateFollowupInput struct {
	LeadRef       *int64 `json:"lead_id"`
	LeadName      string `json:"lead_name"`
	Phone         string `json:"phone"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	Type          string `json:"type"`
	Service       string `json:"service"`
	Notes         string `json:"notes"`
	CreatedBy     *int64 `json:"created_by"`
}

type ExecuteCampaignInput struct {
	CampaignID int64
}

type RecipientResult struct {
	LeadRef      int64  `json:"lead_id"`
	PhoneNumber  string `json:"phone_number"`
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type ExecuteCampaignOutput struct {
	CampaignID      int64             `json:"campaign_id"`
	Status          string            `json:"status"`
	TotalRecipients int               `json:"total_recipients"`
	SentCount       int               `json:"sent_count"`
	FailedCount     int               `json:"failed_count"`
	WhatsAppLinks   []RecipientResult `json:"whatsapp_links"`
}

type ImportLeadsOutput struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
	Leads    []*entity.Lead `json:"-"`
}
