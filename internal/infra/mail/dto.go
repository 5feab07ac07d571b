package mail

type CampaignReportData struct {
	CampaignName    string
	TotalRecipients int
	SentCount       int
	FailedCount     int
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}
