package dto

// TestRequest представляет запрос на создание или обновление теста
type TestRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Mode        string `json:"mode" binding:"omitempty,oneof=practice thematic exam"`
	ImageURL    string `json:"image_url" binding:"omitempty,max=255"`
}

// UpdateTestRequest представляет частичное обновление теста
type UpdateTestRequest struct {
	Title       string `json:"title" binding:"omitempty,min=2,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Mode        string `json:"mode" binding:"omitempty,oneof=practice thematic exam"`
	ImageURL    string `json:"image_url" binding:"omitempty,max=255"`
}
