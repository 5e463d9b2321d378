package types

type Campaign struct {
	ID            int64      `json:"id,omitempty"`
	Name          string     `json:"name"`
	CreatedDate   string     `json:"created_date,omitempty"`
	LaunchDate    string     `json:"launch_date,omitempty"`
	CompletedDate string     `json:"completed_date,omitempty"`
	Template      *Template  `json:"template,omitempty"`
	Page          *Page      `json:"page,omitempty"`
	SMTP          *SMTP      `json:"smtp,omitempty"`
	Status        string     `json:"status,omitempty"`
	URL           string     `json:"url"`
	Groups        []GroupRef `json:"groups,omitempty"`
}

// Template, Page and SMTP are resolved by name when posted, so a reference
// carrying only Name is enough to attach an existing object to a campaign.
type Template struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
}

type Page struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

type SMTP struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	FromAddress string `json:"from_address,omitempty"`
}

func (campaign *Campaign) PageName() string {
	if campaign.Page == nil {
		return ""
	}
	return campaign.Page.Name
}

func (campaign *Campaign) TemplateName() string {
	if campaign.Template == nil {
		return ""
	}
	return campaign.Template.Name
}

func (campaign *Campaign) SMTPName() string {
	if campaign.SMTP == nil {
		return ""
	}
	return campaign.SMTP.Name
}
