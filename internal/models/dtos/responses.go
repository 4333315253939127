package dtos

type APIResponse struct {
	Status       string       `json:"status"`
	Message      string       `json:"message"`
	ResponseTime string       `json:"response_time"`
	Data         any          `json:"data,omitempty"`
	Error        *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail is attached to error envelopes for typed domain failures.
type ErrorDetail struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type CanManageResponse struct {
	ClanID    string `json:"clan_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	CanManage bool   `json:"can_manage"`
}

type FieldsResponse struct {
	State    string   `json:"state"`
	GameType string   `json:"game_type"`
	Fields   []string `json:"fields"`
}
