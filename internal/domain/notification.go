package domain

// NotificationMessage: 投递到消息队列的通知信封，实际发送由外部系统负责
type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type RosterImplementedData struct {
	RosterName     string `json:"rosterName"`
	EntriesCreated int    `json:"entriesCreated"`
}

type ApprovalsOutstandingData struct {
	RosterName          string   `json:"rosterName"`
	OutstandingManagers []string `json:"outstandingManagers"`
}
