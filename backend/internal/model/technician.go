package model

// Technician 技师档案表 — 对应 technicians
type Technician struct {
	TechnicianID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"technician_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Surname      string `gorm:"type:varchar(100);not null"                     json:"surname"`
	Email        string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone        string `gorm:"type:varchar(50)"                               json:"phone,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Technician) TableName() string { return "technicians" }

// FullName 技师显示名（姓 名）
func (t Technician) FullName() string {
	if t.Surname == "" {
		return t.Name
	}
	return t.Surname + " " + t.Name
}
