package handlers

// MessageResponse is the envelope every v1 read and prompt route answers with.
type MessageResponse struct {
	Msg    any               `json:"msg"`
	System map[string]string `json:"system,omitempty"`
}

type CreateThreadRequest struct {
	Name        string  `json:"name" validate:"required,max=128"`
	Description *string `json:"description" validate:"omitempty,max=4096"`
}
