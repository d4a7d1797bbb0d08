package model

// User 用户表 — 对应 users
// 后台登录账号，与技师档案（Technician）分离：
// 并非所有账号都是技师（计划员、管理员），也并非所有技师都有账号。
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'tecnico'"    json:"role"` // admin | planner | tecnico
	TechnicianID *string `gorm:"type:uuid"                                      json:"technician_id,omitempty"`
	VersionedModel

	// 关联
	Technician *Technician `gorm:"foreignKey:TechnicianID;references:TechnicianID" json:"technician,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
