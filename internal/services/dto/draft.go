package dto

// CreateDraftRequest — черновик фотографии, который живет только в памяти
// процесса и не попадает в долговременное хранилище.
type CreateDraftRequest struct {
	PhotoDataURI string `json:"photo_data_uri" binding:"required" validate:"required"`
	Caption      string `json:"caption"`
	Tags         string `json:"tags"`
}

type DraftResponse struct {
	ID           string   `json:"id"`
	PhotoDataURI string   `json:"photo_data_uri"`
	Caption      string   `json:"caption"`
	Tags         []string `json:"tags"`
}
