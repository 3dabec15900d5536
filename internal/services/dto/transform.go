package dto

type TransformRequest struct {
	Style string `json:"style" binding:"required" validate:"required,oneof=watercolor cartoon pixel-art sci-fi fantasy"`
}

type TransformResponse struct {
	PhotoID        string `json:"photo_id"`
	Style          string `json:"style"`
	TransformedURL string `json:"transformed_url"`
}
