package models

type AnalyzeRequest struct {
	Input    string `json:"input" validate:"required,max=256"`
	Locale   string `json:"locale" validate:"omitempty,oneof=ru en"`
	Provider string `json:"provider" validate:"omitempty,max=32"`
}

type AnalyzeResponse struct {
	SteamID64 string `json:"steamId64"`
	Cached    bool   `json:"cached"`
}

type GateCreateRequest struct {
	SteamID64 string `json:"steamId64" validate:"required,numeric,len=17"`
	Locale    string `json:"locale" validate:"omitempty,oneof=ru en"`
}

type GateCreateResponse struct {
	Token   string `json:"token,omitempty"`
	BotLink string `json:"botLink"`
	Error   bool   `json:"error,omitempty"`
}

// GateStatusResponse reports Degraded when the status is a fail-open answer
// given because the token store could not be read.
type GateStatusResponse struct {
	Status   GateStatus `json:"status"`
	Degraded bool       `json:"degraded,omitempty"`
}

type ProviderInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Model     string `json:"model"`
	Available bool   `json:"available"`
	Default   bool   `json:"default"`
}

type ErrorResponse struct {
	Error     bool      `json:"error"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
}
