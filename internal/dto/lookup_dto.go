package dto

type CreateLookupRequest struct {
	Name     string  `json:"name" validate:"required"`
	ColorHex *string `json:"color_hex" validate:"omitempty,hexcolor"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=2048"`
}

// UpdateLookupRequest backs PATCH; absent fields keep their value.
type UpdateLookupRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	ColorHex *string `json:"color_hex" validate:"omitempty,hexcolor"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=2048"`
}

// LookupResponse covers all four lookup tables; fields a table lacks are omitted.
type LookupResponse struct {
	Id       uint    `json:"id"`
	Name     string  `json:"name"`
	ColorHex *string `json:"color_hex,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}
