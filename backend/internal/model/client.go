package model

// Client 客户表 — 对应 clients
type Client struct {
	ClientID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"client_id"`
	Name     string `gorm:"type:varchar(255);not null"                     json:"name"`
	VATCode  string `gorm:"type:varchar(20)"                               json:"vat_code,omitempty"`
	Address  string `gorm:"type:varchar(500)"                              json:"address,omitempty"`
	City     string `gorm:"type:varchar(100)"                              json:"city,omitempty"`
	Phone    string `gorm:"type:varchar(50)"                               json:"phone,omitempty"`
	Email    string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Client) TableName() string { return "clients" }
