package dto

// ==================== 站点设置 ====================

// UpdateSettingsRequest 更新站点设置请求（键值批量）
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

// ==================== 收款账户 ====================

// SaveBankAccountRequest 创建/更新收款账户请求
type SaveBankAccountRequest struct {
	BankName      string `json:"bank_name" binding:"required,max=100"`
	AccountNumber string `json:"account_number" binding:"required,max=64"`
	HolderName    string `json:"holder_name" binding:"required,max=100"`
	IsActive      *bool  `json:"is_active"`
	SortOrder     int    `json:"sort_order"`
}

// BankAccountVO 收款账户视图
type BankAccountVO struct {
	ID            int64  `json:"id"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	HolderName    string `json:"holder_name"`
	IsActive      bool   `json:"is_active"`
	SortOrder     int    `json:"sort_order"`
}
