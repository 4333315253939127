package dtos

// CreateClanInput is both the request body of POST /clans and the service input.
type CreateClanInput struct {
	Name           string       `json:"name" validate:"required,max=50"`
	Tag            string       `json:"tag" validate:"required,min=2,max=6,alphanum"`
	Description    string       `json:"description" validate:"max=500"`
	GameType       string       `json:"game_type" validate:"required,oneof=Airsoft Paintball"`
	State          string       `json:"state" validate:"required"`
	PrimaryBase    string       `json:"primary_base"`
	SecondaryBases []string     `json:"secondary_bases" validate:"max=10,unique,dive,required"`
	Logo           *LogoPayload `json:"logo,omitempty"`
}

// UpdateClanInput replaces every editable field. Game type is fixed at creation.
type UpdateClanInput struct {
	Name           string       `json:"name" validate:"required,max=50"`
	Tag            string       `json:"tag" validate:"required,min=2,max=6,alphanum"`
	Description    string       `json:"description" validate:"max=500"`
	State          string       `json:"state" validate:"required"`
	PrimaryBase    string       `json:"primary_base"`
	SecondaryBases []string     `json:"secondary_bases" validate:"max=10,unique,dive,required"`
	Logo           *LogoPayload `json:"logo,omitempty"`
}

// LogoPayload carries an already encoded image; Data is base64 in JSON.
type LogoPayload struct {
	ContentType string `json:"content_type" validate:"required,oneof=image/png image/jpeg image/webp"`
	Data        []byte `json:"data" validate:"required"`
}

type TargetUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type AwardPointsRequest struct {
	Delta int64 `json:"delta" validate:"required,gt=0"`
}

type AchievementRequest struct {
	Achievement string `json:"achievement" validate:"required,max=120"`
}
